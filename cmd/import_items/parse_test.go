package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseItems(t *testing.T) {
	in := "name,sku,description,unit_price,reorder_level\n" +
		"Tornillo,TOR-001,Acero 1/4,\"1,50\",10\n" +
		"Tuerca,TUE-001,,0.25,\n" +
		",,,,\n" +
		"Arandela,ARA-001,,abc,5\n" +
		"Broca,BRO-001,,3,-1\n"

	rows, bad, err := parseItems(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "TOR-001", rows[0].Item.SKU)
	assert.Equal(t, "1.5", rows[0].Item.UnitPrice.String())
	assert.Equal(t, int64(10), rows[0].Item.ReorderLevel)
	assert.Equal(t, 2, rows[0].Line)

	assert.Equal(t, "Tuerca", rows[1].Item.Name)
	assert.Equal(t, int64(0), rows[1].Item.ReorderLevel)

	require.Len(t, bad, 2)
	assert.Equal(t, 5, bad[0].Line)
	assert.Contains(t, bad[0].Error(), "unit_price")
	assert.Equal(t, 6, bad[1].Line)
}

func TestParseItems_CabeceraEnOtroOrden(t *testing.T) {
	in := "\ufeffSKU,Name\nX-1,Equis\n"
	rows, _, err := parseItems(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X-1", rows[0].Item.SKU)
	assert.Equal(t, "Equis", rows[0].Item.Name)
}

func TestParseItems_SinSKU(t *testing.T) {
	_, _, err := parseItems(strings.NewReader("name,price\nA,1\n"))
	assert.Error(t, err)
}

func TestDecoder_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("name,sku\nCañería,CAN-001\n")
	require.NoError(t, err)

	r, err := decoder(bytes.NewReader([]byte(raw)), "latin1")
	require.NoError(t, err)
	rows, _, err := parseItems(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cañería", rows[0].Item.Name)

	_, err = decoder(io.NopCloser(strings.NewReader("")), "ebcdic")
	assert.Error(t, err)
}
