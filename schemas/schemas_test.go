package schemas_test

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/jonathan/degree-advisor/internal/schemas"
	schemafiles "github.com/jonathan/degree-advisor/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles, err := fs.Glob(schemafiles.Files, "*.schema.json")
	require.NoError(t, err)
	require.NotEmpty(t, schemaFiles)

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := schemafiles.Files.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v map[string]interface{}
			err = json.Unmarshal(data, &v)
			require.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", v["$schema"])
			assert.NotEmpty(t, v["title"], "schema should declare a title")
		})
	}
}

func TestSchemaFiles_AllRegistered(t *testing.T) {
	schemaFiles, err := fs.Glob(schemafiles.Files, "*.schema.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, schemaFiles, schemas.Names())
}
