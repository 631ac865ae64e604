package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestYAMLFormatter_Format(t *testing.T) {
	doc := testDocument(t)

	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter().Format(&buf, doc))

	var got struct {
		Tool     string `yaml:"tool"`
		Document struct {
			Title    string `yaml:"title"`
			Sections []struct {
				ID        string `yaml:"id"`
				Narrative string `yaml:"narrative"`
			} `yaml:"sections"`
		} `yaml:"document"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, Tool, got.Tool)
	assert.Equal(t, doc.Title, got.Document.Title)
	require.Len(t, got.Document.Sections, len(doc.Sections))
	for i, s := range got.Document.Sections {
		assert.Equal(t, string(doc.Sections[i].ID), s.ID)
		assert.Equal(t, doc.Sections[i].Narrative, s.Narrative)
	}
	assert.Contains(t, buf.String(), "\n  title: ")
}
