package progress

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestModelTracksBuckets(t *testing.T) {
	var m tea.Model = NewModel()

	m, _ = m.Update(BucketMsg{Bucket: "logs", Index: 1, Total: 3, Objects: 250, Bytes: 1024})
	view := m.(Model).View()
	assert.Contains(t, view, "logs")
	assert.Contains(t, view, "(1/3")

	m, _ = m.Update(BucketMsg{Bucket: "logs", Index: 1, Total: 3, Done: true})
	assert.Equal(t, 1, m.(Model).finished)
}

func TestModelQuitsOnFinished(t *testing.T) {
	var m tea.Model = NewModel()

	m, cmd := m.Update(FinishedMsg{})
	assert.NotNil(t, cmd)
	assert.Empty(t, m.(Model).View())
}

func TestModelInitialView(t *testing.T) {
	view := NewModel().View()
	assert.Contains(t, view, "Listing buckets")
}
