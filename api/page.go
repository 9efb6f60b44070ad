package api

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #f5f5f5;
    color: #222;
    display: flex;
    justify-content: center;
    min-height: 100vh;
    padding: 32px 16px;
  }
  main { max-width: 960px; width: 100%; }
  h1 { font-size: 24px; font-weight: 600; margin-bottom: 8px; }
  .subtitle { color: #666; font-size: 14px; margin-bottom: 24px; }
  .columns { display: flex; gap: 24px; flex-wrap: wrap; }
  .card {
    background: #fff;
    border: 1px solid #ddd;
    border-radius: 12px;
    padding: 24px;
    flex: 1 1 360px;
  }
  h2 { font-size: 16px; margin-bottom: 16px; }
  label { display: block; font-size: 13px; color: #555; margin: 12px 0 4px; }
  textarea { width: 100%; height: 150px; padding: 8px; font: inherit; }
  input[type=range] { width: 100%; }
  button {
    margin-top: 16px; padding: 10px 20px;
    background: #ff4b4b; color: #fff; border: 0; border-radius: 8px;
    font-size: 14px; cursor: pointer;
  }
  .error { background: #fdecea; color: #b3261e; padding: 10px; border-radius: 8px; margin-bottom: 12px; }
  .flash { background: #e7f6ec; color: #1e7b34; padding: 10px; border-radius: 8px; margin-bottom: 12px; }
  .info { background: #e8f0fe; color: #1a4fa0; padding: 10px; border-radius: 8px; }
  .preview img { max-width: 100%; image-rendering: pixelated; border: 1px solid #eee; }
  .meta { color: #888; font-size: 12px; margin: 8px 0; }
  .downloads a { margin-right: 12px; }
  footer { color: #999; font-size: 12px; margin-top: 32px; border-top: 1px solid #ddd; padding-top: 12px; }
</style>
{{if .Stylesheet}}<style>{{.Stylesheet}}</style>{{end}}
</head>
<body>
<main>
  <h1>QR Code Generator</h1>
  <p class="subtitle">Enter text to create a customized QR code. Adjust the size and colors, then download it in the format you like.</p>
  {{range .Flashes}}<div class="flash">{{.}}</div>{{end}}
  {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
  <div class="columns">
    <form class="card" method="post" action="/generate">
      <h2>Text</h2>
      <label for="text">Text to convert into a QR code</label>
      <textarea id="text" name="text" placeholder="A URL or any text">{{.Text}}</textarea>

      <h2 style="margin-top:24px">Customize</h2>
      <label for="module_size">Module size (pixels): <output id="module_size_out">{{.Settings.ModuleSize}}</output></label>
      <input type="range" id="module_size" name="module_size"
        min="{{.Limits.MinModuleSize}}" max="{{.Limits.MaxModuleSize}}" value="{{.Settings.ModuleSize}}"
        oninput="document.getElementById('module_size_out').value = this.value">

      <label for="border">Border (modules): <output id="border_out">{{.Settings.Border}}</output></label>
      <input type="range" id="border" name="border"
        min="{{.Limits.MinBorder}}" max="{{.Limits.MaxBorder}}" value="{{.Settings.Border}}"
        oninput="document.getElementById('border_out').value = this.value">

      <label for="foreground">QR code color</label>
      <input type="color" id="foreground" name="foreground" value="{{.Settings.Foreground}}">

      <label for="background">Background color</label>
      <input type="color" id="background" name="background" value="{{.Settings.Background}}">

      <label for="format">Output format</label>
      <select id="format" name="format">
        {{$selected := .Settings.Format}}
        {{range .Formats}}<option value="{{.}}"{{if eq (print .) $selected}} selected{{end}}>{{.}}</option>{{end}}
      </select>

      <div><button type="submit">Generate QR code</button></div>
    </form>

    <section class="card preview">
      <h2>Generated QR code</h2>
      {{with .Result}}
        <img src="{{.Preview}}" alt="Generated QR code">
        <p class="meta">{{.Size}}&times;{{.Size}} px &middot; version {{.Version}} ({{.Dimension}}&times;{{.Dimension}} modules) &middot; {{.Format}}</p>
        <p class="downloads">
          <a href="/download" download>Download {{.Format}}</a>
          {{range .Downloads}}<a href="{{.URL}}" download>{{.Format}}</a>{{end}}
        </p>
      {{else}}
        <p class="info">Enter some text and click "Generate QR code".</p>
      {{end}}
    </section>
  </div>
  <footer>QR Code Generator</footer>
</main>
</body>
</html>`
