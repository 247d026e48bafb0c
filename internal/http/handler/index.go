package handler

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"

	"pdfnarrator/internal/model"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>PDF to Speech</title>
  <style>
    body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
    textarea { width: 100%; min-height: 20rem; font-family: monospace; }
    #progress { color: #555; }
    .error { color: #b00020; }
  </style>
</head>
<body>
  <h1>PDF to Speech</h1>
  <form id="upload">
    <input type="file" id="file" name="file" accept="application/pdf,.pdf" required />
    <button type="submit">Extract text</button>
  </form>
  <ul id="progress"></ul>
  <p id="error" class="error"></p>

  <h2>Transcript</h2>
  <textarea id="transcript" placeholder="Extracted text appears here. You can edit it before converting."></textarea>

  <p>
    <label for="language">Language</label>
    <select id="language">
      {{range .Languages}}<option value="{{.}}"{{if eq . $.Default}} selected{{end}}>{{.}}</option>
      {{end}}
    </select>
    <label><input type="checkbox" id="slow" /> slow</label>
    <button id="speak" type="button" disabled>Convert to Speech</button>
  </p>

  <audio id="player" controls hidden></audio>
  <p><a id="download" hidden>Download audio</a></p>

  <script>
    const $ = (id) => document.getElementById(id);
    const showError = (e) => { $('error').textContent = e ? e.message + (e.hint ? ' ' + e.hint : '') : ''; };
    // Speech is only offered once there is transcript text.
    const syncSpeak = () => { $('speak').disabled = $('transcript').value.trim() === ''; };
    $('transcript').addEventListener('input', syncSpeak);

    $('upload').addEventListener('submit', async (ev) => {
      ev.preventDefault();
      showError(null);
      $('progress').innerHTML = '';
      $('transcript').value = '';
      syncSpeak();
      const body = new FormData();
      body.append('file', $('file').files[0]);
      const res = await fetch('/transcripts/stream', { method: 'POST', body });
      if (!res.ok) { showError((await res.json()).error); return; }
      const reader = res.body.getReader();
      const dec = new TextDecoder();
      let buf = '';
      for (;;) {
        const { value, done } = await reader.read();
        if (done) break;
        buf += dec.decode(value, { stream: true });
        let nl;
        while ((nl = buf.indexOf('\n')) >= 0) {
          const line = buf.slice(0, nl); buf = buf.slice(nl + 1);
          if (!line) continue;
          const ev = JSON.parse(line);
          if (ev.type === 'progress') {
            const li = document.createElement('li'); li.textContent = ev.message; $('progress').appendChild(li);
          } else if (ev.type === 'transcript') {
            $('transcript').value = ev.transcript.text;
            syncSpeak();
          } else if (ev.type === 'error') {
            showError(ev.error);
          }
        }
      }
    });

    $('speak').addEventListener('click', async () => {
      if ($('transcript').value.trim() === '') return;
      showError(null);
      const res = await fetch('/speech', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ text: $('transcript').value, language: $('language').value, slow: $('slow').checked }),
      });
      if (!res.ok) { showError((await res.json()).error); return; }
      const url = URL.createObjectURL(await res.blob());
      $('player').src = url; $('player').hidden = false;
      $('download').href = url; $('download').download = '{{.AudioFilename}}'; $('download').hidden = false;
    });
  </script>
</body>
</html>`))

type indexData struct {
	Languages     []model.Language
	Default       model.Language
	AudioFilename string
}

// Index serves the upload form. The page is rendered once; a rendering
// failure panics, like template.Must does for parsing.
func Index() fiber.Handler {
	page, err := renderPage(indexTmpl, indexData{
		Languages:     model.Languages(),
		Default:       model.DefaultLanguage,
		AudioFilename: model.AudioFilename,
	})
	if err != nil {
		panic(err)
	}

	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(page)
	}
}

func renderPage(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}
