package bookshelf

import (
	"io"
	"text/template"
)

// PlaygroundConfig contains the settings the playground ui is rendered with
type PlaygroundConfig struct {
	Endpoint string `json:"endpoint"`
}

func writePlayground(w io.Writer, config PlaygroundConfig) error {
	return playgroundTemplate.Execute(w, config)
}

var playgroundTemplate = template.Must(template.New("").Funcs(map[string]interface{}{
	"toJSON": func(v interface{}) (string, error) {
		bytes, err := json.Marshal(v)
		return string(bytes), err
	},
}).Parse(playgroundContent))

const playgroundContent = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Bookshelf</title>
  <link rel="stylesheet" href="//cdn.jsdelivr.net/npm/graphiql@1.4.7/graphiql.min.css" />
  <style>
    body { margin: 0; height: 100vh; }
    #graphiql { height: 100vh; }
  </style>
</head>
<body>
  <div id="graphiql">Loading...</div>
  <script src="//cdn.jsdelivr.net/npm/react@17/umd/react.production.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/react-dom@17/umd/react-dom.production.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/graphiql@1.4.7/graphiql.min.js"></script>
  <script>
    var config = {{ . | toJSON }};
    var fetcher = function (params) {
      return fetch(config.endpoint, {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify(params),
      }).then(function (response) { return response.json(); });
    };
    ReactDOM.render(
      React.createElement(GraphiQL, {
        fetcher: fetcher,
        defaultQuery: '{\n  users {\n    name\n    latestreadbooks {\n      title\n      availableMarkets { id name }\n    }\n  }\n}\n',
      }),
      document.getElementById('graphiql'),
    );
  </script>
</body>
</html>
`
