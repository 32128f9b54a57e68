package categories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/model"
)

func TestDefaultSet(t *testing.T) {
	set := DefaultSet("cloud_kitchen")
	require.NotEmpty(t, set)

	svc := NewService(set)
	assert.True(t, svc.Allows("ingredients", model.KindExpense))
	assert.True(t, svc.Allows("catering", model.KindSale))
	assert.False(t, svc.Allows("catering", model.KindExpense), "sale category used for an expense")
	assert.False(t, svc.Allows("fuel", model.KindExpense))

	for _, c := range set {
		assert.NotEmpty(t, c.Name)
		assert.True(t, c.Kind.Valid(), "category %s", c.Name)
		assert.True(t, ledger.ValidRate(c.DefaultRate), "category %s rate %d", c.Name, c.DefaultRate)
	}
}

func TestDefaultSet_UnknownBusinessType(t *testing.T) {
	assert.Equal(t, DefaultSet("cloud_kitchen"), DefaultSet("food_truck"))
}

func TestService_ByKindAndRate(t *testing.T) {
	svc := NewService(DefaultSet("cloud_kitchen"))

	sales := svc.ByKind(model.KindSale)
	assert.Len(t, sales, 3)

	assert.Equal(t, 9, svc.DefaultRate("ingredients", 21))
	assert.Equal(t, 0, svc.DefaultRate("rent", 21))
	assert.Equal(t, 21, svc.DefaultRate("unknown", 21))

	c, ok := svc.Get("packaging")
	require.True(t, ok)
	assert.Equal(t, 21, c.DefaultRate)
}

func TestSaveLoad(t *testing.T) {
	root := t.TempDir()
	svc := NewService(DefaultSet("cloud_kitchen"))
	require.NoError(t, svc.Save(root))

	_, err := os.Stat(filepath.Join(root, "categories", "categories.csv"))
	require.NoError(t, err)

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, svc.All(), loaded.All())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
