package web

import "net/http"

// The dashboard itself is rendered client-side; this shell is the
// authenticated entry point that loads it.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Climate Station</title>
</head>
<body>
  <div id="app" data-ws-path="/ws"></div>
  <script src="/static/dashboard.js"></script>
</body>
</html>
`

func (api *API) handleIndex(response http.ResponseWriter, request *http.Request) {
	response.Header().Set("Content-Type", "text/html; charset=utf-8")
	response.WriteHeader(http.StatusOK)
	_, _ = response.Write([]byte(indexPage))
}
