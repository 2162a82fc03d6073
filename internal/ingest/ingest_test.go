package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobDescription_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`
			<html><body>
				<nav>Jobs Home About</nav>
				<div class="job-description">
					<h1>Senior Go Engineer</h1>
					<p>Build distributed systems.</p>
				</div>
				<footer>© Acme</footer>
			</body></html>`))
	}))
	defer server.Close()

	text, err := JobDescription(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Go Engineer")
	assert.Contains(t, text, "Build distributed systems.")
	assert.NotContains(t, text, "Jobs Home About")
	assert.NotContains(t, text, "© Acme")
}

func TestJobDescription_InvalidURL(t *testing.T) {
	_, err := JobDescription(context.Background(), "not-a-url", nil)
	require.Error(t, err)

	var ingestErr *Error
	assert.ErrorAs(t, err, &ingestErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestJobDescription_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := JobDescription(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractText_FallsBackToBody(t *testing.T) {
	text, err := ExtractText(`<html><body><p>Just a plain page.</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Just a plain page.", text)
}

func TestExtractText_PrefersJobSelectors(t *testing.T) {
	text, err := ExtractText(`
		<html><body>
			<article>General article text</article>
			<div id="job-description">The actual posting</div>
		</body></html>`)
	require.NoError(t, err)
	assert.Contains(t, text, "The actual posting")
	assert.NotContains(t, text, "General article text")
}

func TestExtractText_StripsScriptsAndStyles(t *testing.T) {
	text, err := ExtractText(`
		<html><body>
			<script>alert("nope")</script>
			<style>.x { color: red }</style>
			<main>Visible content</main>
		</body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Visible content", text)
}
