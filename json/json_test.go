package json

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortedIndentedWithNewline(t *testing.T) {
	jsonClient := NewJsonClient("", logrus.New())

	content, err := jsonClient.Marshal(map[string]string{"OrdersQueue": "OrdersQueue", "OrdersFunction": "OrdersFunction9F8E7D6C"})
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"OrdersFunction\": \"OrdersFunction9F8E7D6C\",\n  \"OrdersQueue\": \"OrdersQueue\"\n}\n", string(content))
}

func TestExportImport(t *testing.T) {
	jsonClient := NewJsonClient(t.TempDir(), logrus.New())

	require.NoError(t, jsonClient.Export(map[string]string{"A": "B"}, "logical-id-map.json"))

	imported := map[string]string{}
	require.NoError(t, jsonClient.Import("logical-id-map.json", &imported))
	assert.Equal(t, map[string]string{"A": "B"}, imported)

	absolute := filepath.Join(jsonClient.WorkingFolderPath, "logical-id-map.json")
	imported = map[string]string{}
	require.NoError(t, jsonClient.Import(absolute, &imported))
	assert.Equal(t, "B", imported["A"])
}

func TestImport_MissingFile(t *testing.T) {
	jsonClient := NewJsonClient(t.TempDir(), logrus.New())

	err := jsonClient.Import("missing.json", &map[string]string{})
	assert.Error(t, err)
}
