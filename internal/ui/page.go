// Package ui renders the single-page file manager served at "/".
//
// The page is a thin client over the REST surface: it lists files on load,
// posts one file as multipart form data, lets the browser save downloads and
// asks for confirmation before deleting.
package ui

import (
	"context"
	"encoding/json"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

const pageTitle = "S3 File Manager"

// PageData parameterises the file manager page.
type PageData struct {
	MaxUploadBytes int64
	// BannerTimeoutMs is how long error/success banners stay visible.
	BannerTimeoutMs int
}

// FileManagerPage renders the whole HTML document.
func FileManagerPage(data PageData) templ.Component {
	if data.BannerTimeoutMs <= 0 {
		data.BannerTimeoutMs = 5000
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cfg, err := json.Marshal(map[string]interface{}{
			"bannerTimeoutMs": data.BannerTimeoutMs,
		})
		if err != nil {
			return err
		}

		parts := []string{
			"<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">",
			"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">",
			"<title>", pageTitle, "</title>",
			"<link rel=\"stylesheet\" href=\"https://unpkg.com/@picocss/pico@2/css/pico.min.css\">",
			"</head><body><main class=\"container\">",
			"<header><h1>", pageTitle, "</h1>",
		}
		if data.MaxUploadBytes > 0 {
			parts = append(parts, "<p>Max file size: ", html.EscapeString(humanize.IBytes(uint64(data.MaxUploadBytes))), "</p>")
		}
		parts = append(parts,
			"</header>",
			"<div id=\"banner\" role=\"alert\" hidden></div>",
			"<form id=\"upload-form\"><input type=\"file\" name=\"file\" id=\"file-input\" required>",
			"<button type=\"submit\" id=\"upload-button\">Upload</button></form>",
			"<table><thead><tr><th>Key</th><th>Size</th><th>Last Modified</th><th></th></tr></thead>",
			"<tbody id=\"file-rows\"><tr><td colspan=\"4\">Loading…</td></tr></tbody></table>",
			"</main><script>const FM_CONFIG = ", string(cfg), ";</script>",
			"<script>", pageScript, "</script></body></html>",
		)

		for _, p := range parts {
			if _, err := io.WriteString(w, p); err != nil {
				return err
			}
		}
		return nil
	})
}

const pageScript = `
(function () {
  const banner = document.getElementById('banner');
  const rows = document.getElementById('file-rows');
  let bannerTimer = null;

  function showBanner(text, isError) {
    banner.textContent = text;
    banner.className = isError ? 'error' : 'success';
    banner.hidden = false;
    clearTimeout(bannerTimer);
    bannerTimer = setTimeout(() => { banner.hidden = true; }, FM_CONFIG.bannerTimeoutMs);
  }

  async function failure(res) {
    try {
      const body = await res.json();
      return body.message ? body.error + ': ' + body.message : body.error;
    } catch (e) {
      return 'Request failed with status ' + res.status;
    }
  }

  function formatSize(n) {
    const units = ['B', 'KiB', 'MiB', 'GiB'];
    let i = 0;
    while (n >= 1024 && i < units.length - 1) { n /= 1024; i++; }
    return (i === 0 ? n : n.toFixed(1)) + ' ' + units[i];
  }

  async function loadFiles() {
    const res = await fetch('/api/files');
    if (!res.ok) { showBanner(await failure(res), true); return; }
    const body = await res.json();
    rows.replaceChildren();
    if (body.files.length === 0) {
      const tr = rows.insertRow();
      const td = tr.insertCell();
      td.colSpan = 4;
      td.textContent = 'No files uploaded yet.';
      return;
    }
    for (const f of body.files) {
      const tr = rows.insertRow();
      tr.insertCell().textContent = f.key;
      tr.insertCell().textContent = formatSize(f.size);
      tr.insertCell().textContent = new Date(f.lastModified).toLocaleString();
      const actions = tr.insertCell();
      const dl = document.createElement('a');
      dl.href = '/api/download/' + encodeURIComponent(f.key);
      dl.setAttribute('download', f.key);
      dl.textContent = 'Download';
      const del = document.createElement('button');
      del.className = 'secondary';
      del.textContent = 'Delete';
      del.onclick = () => deleteFile(f.key);
      actions.append(dl, ' ', del);
    }
  }

  async function deleteFile(key) {
    if (!window.confirm('Delete ' + key + '?')) { return; }
    const res = await fetch('/api/delete/' + encodeURIComponent(key), { method: 'DELETE' });
    if (!res.ok) { showBanner(await failure(res), true); return; }
    showBanner('File deleted successfully', false);
    await loadFiles();
  }

  document.getElementById('upload-form').addEventListener('submit', async (ev) => {
    ev.preventDefault();
    const input = document.getElementById('file-input');
    if (!input.files.length) { showBanner('Please choose a file', true); return; }
    const form = new FormData();
    form.append('file', input.files[0]);
    const res = await fetch('/api/upload', { method: 'POST', body: form });
    if (!res.ok) { showBanner(await failure(res), true); return; }
    const body = await res.json();
    showBanner(body.message, false);
    input.value = '';
    await loadFiles();
  });

  loadFiles().catch((e) => showBanner(e.message, true));
})();
`
