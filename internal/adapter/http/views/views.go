// Package views holds the HTML views as templ components authored
// directly in Go, keeping rendering free of a codegen step.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"videoqc/internal/domain"
)

func esc(s string) string { return templ.EscapeString(s) }

func csrfField(token string) string {
	return fmt.Sprintf(`<input type="hidden" name="csrf_token" value="%s">`, esc(token))
}

func component(render func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return render(w)
	})
}

func page(title string, body func(w io.Writer) error) templ.Component {
	return component(func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s — videoqc</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
<header><a href="/">videoqc</a></header>
<main>
`, esc(title)); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// Dashboard lists uploaded media with status and links.
func Dashboard(media []*domain.Media) templ.Component {
	return page("Dashboard", func(w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Uploads</h1>
<p><a class="button" href="/upload">Upload a video</a></p>
`); err != nil {
			return err
		}
		if len(media) == 0 {
			_, err := io.WriteString(w, "<p>No uploads yet.</p>\n")
			return err
		}
		if _, err := io.WriteString(w, "<table>\n<tr><th>Name</th><th>Status</th><th></th></tr>\n"); err != nil {
			return err
		}
		for _, m := range media {
			if _, err := fmt.Fprintf(w,
				`<tr><td>%s</td><td class="status-%s">%s</td><td><a href="/media/%s">details</a></td></tr>
`,
				esc(m.OriginalName), esc(string(m.Status)), esc(string(m.Status)), esc(m.ID)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>\n")
		return err
	})
}

// Upload renders the upload form.
func Upload(maxSizeMB int, csrfToken string) templ.Component {
	return page("Upload", func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>Upload a video</h1>
<form method="post" action="/upload" enctype="multipart/form-data">
%s<input type="file" name="file" accept=".mp4,.mov,.avi,.mkv,.mxf" required>
<p class="hint">Maximum size: %d MB</p>
<button type="submit">Upload and inspect</button>
</form>
`, csrfField(csrfToken), maxSizeMB)
		return err
	})
}

// PropertyTable renders the derived record as key/value rows.
func PropertyTable(props domain.VideoProperties) templ.Component {
	return component(func(w io.Writer) error {
		if _, err := io.WriteString(w, "<table class=\"properties\">\n"); err != nil {
			return err
		}
		for _, row := range props.DisplayRows() {
			if _, err := fmt.Fprintf(w, "<tr><th>%s</th><td>%s</td></tr>\n", esc(row[0]), esc(row[1])); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>\n")
		return err
	})
}

// ConvertForm offers the XDCAM HD422 conversion with the override
// knobs.
func ConvertForm(mediaID, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<form method="post" action="/media/%s/convert" class="convert">
%s<label>Video codec <input name="video_codec" value="%s"></label>
<label>Resolution <input name="resolution" value="%s"></label>
<label>Bitrate <input name="bitrate" value="%s"></label>
<label>Audio codec <input name="audio_codec" value="%s"></label>
<button type="submit">Convert to XDCAM HD422</button>
</form>
`, esc(mediaID), csrfField(csrfToken),
			esc(domain.DefaultVideoCodec), esc(domain.DefaultResolution),
			esc(domain.DefaultBitrate), esc(domain.DefaultAudioCodec))
		return err
	})
}

// Status renders the conversion state fragment; it is also what the
// SSE stream pushes on updates.
func Status(m *domain.Media) templ.Component {
	return component(func(w io.Writer) error {
		switch m.Status {
		case domain.MediaStatusDone:
			_, err := fmt.Fprintf(w, `<div id="status" class="done">
<p>Conversion completed.</p>
<p><a class="button" href="/media/%s/download">Download %s</a></p>
</div>
`, esc(m.ID), esc(domain.DownloadName))
			return err
		case domain.MediaStatusFailed:
			_, err := fmt.Fprintf(w, `<div id="status" class="failed">
<p>Conversion failed: %s</p>
</div>
`, esc(m.ErrorMessage))
			return err
		case domain.MediaStatusConverting:
			_, err := io.WriteString(w, `<div id="status" class="converting"><p>Converting…</p></div>
`)
			return err
		default:
			return nil
		}
	})
}

// MediaPage shows one upload: its derived properties, the convert
// action and the current conversion status.
func MediaPage(m *domain.Media, props domain.VideoProperties, propErr error, csrfToken string) templ.Component {
	return page(m.OriginalName, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<h1>%s</h1>\n", esc(m.OriginalName)); err != nil {
			return err
		}

		if propErr != nil {
			if _, err := fmt.Fprintf(w, `<p class="error">Inspection failed: %s</p>
<form method="post" action="/media/%s/reprobe">%s<button type="submit">Re-inspect</button></form>
`, esc(propErr.Error()), esc(m.ID), csrfField(csrfToken)); err != nil {
				return err
			}
		} else {
			if err := PropertyTable(props).Render(context.Background(), w); err != nil {
				return err
			}
		}

		if m.Status == domain.MediaStatusUploaded || m.Status == domain.MediaStatusFailed {
			if err := ConvertForm(m.ID, csrfToken).Render(context.Background(), w); err != nil {
				return err
			}
		}
		if err := Status(m).Render(context.Background(), w); err != nil {
			return err
		}

		if m.Status == domain.MediaStatusConverting {
			if _, err := fmt.Fprintf(w, `<script>
const es = new EventSource("/events/%s");
es.addEventListener("status", (e) => { document.getElementById("status").outerHTML = e.data; });
</script>
`, esc(m.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Login renders the login form, with an optional error line.
func Login(errMsg, csrfToken string) templ.Component {
	return page("Login", func(w io.Writer) error {
		if errMsg != "" {
			if _, err := fmt.Fprintf(w, `<p class="error">%s</p>
`, esc(errMsg)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<h1>Login</h1>
<form method="post" action="/login">
%s<label>Username <input name="username" autocomplete="username" required></label>
<label>Password <input type="password" name="password" autocomplete="current-password" required></label>
<button type="submit">Login</button>
</form>
`, csrfField(csrfToken))
		return err
	})
}

// Setup renders the first-run account creation form.
func Setup(errMsg, csrfToken string) templ.Component {
	return page("Setup", func(w io.Writer) error {
		if errMsg != "" {
			if _, err := fmt.Fprintf(w, `<p class="error">%s</p>
`, esc(errMsg)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<h1>Create the admin account</h1>
<form method="post" action="/setup">
%s<label>Username <input name="username" autocomplete="username" required></label>
<label>Password <input type="password" name="password" autocomplete="new-password" required></label>
<button type="submit">Create account</button>
</form>
`, csrfField(csrfToken))
		return err
	})
}

// ErrorInline is a small fragment for upload failures.
func ErrorInline(msg string) templ.Component {
	return component(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<p class="error">%s</p>
`, esc(msg))
		return err
	})
}
