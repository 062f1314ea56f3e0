package htmlpatch

import (
	"bytes"
	"html/template"
)

var wrapperTemplate = template.Must(template.New("wrapper").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        html, body {
            margin: 0;
            padding: 0;
            width: 100%;
            height: 100%;
            overflow: hidden;
            background: #000;
        }
        #game-container {
            width: 100%;
            height: 100%;
            display: flex;
            justify-content: center;
            align-items: center;
        }
        #game-iframe {
            width: 100%;
            height: 100%;
            border: none;
        }
    </style>
</head>
<body>
    <div id="game-container">
        <iframe id="game-iframe" src="{{.Src}}" allowfullscreen webkitallowfullscreen mozallowfullscreen allow="fullscreen; autoplay; encrypted-media" playsinline webkit-playsinline></iframe>
    </div>
</body>
</html>
`))

// Wrapper renders a page that shows src in a full screen iframe.
func Wrapper(title, src string) (string, error) {
	var buf bytes.Buffer
	err := wrapperTemplate.Execute(&buf, struct {
		Title string
		Src   string
	}{title, src})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
