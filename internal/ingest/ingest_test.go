package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/courierround/core"
	"github.com/katalvlaran/courierround/internal/ingest"
)

const smallMap = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<reseau>
  <noeud id="1" latitude="45.75" longitude="4.85"/>
  <noeud id="2" latitude="45.76" longitude="4.86"/>
  <noeud id="3" latitude="45.77" longitude="4.87"/>
  <troncon destination="2" longueur="69.97" nomRue="Rue Danton" origine="1"/>
  <troncon destination="1" longueur="69.97" nomRue="Rue Danton" origine="2"/>
  <troncon destination="3" longueur="120.5" nomRue="Avenue Lacassagne" origine="2"/>
  <troncon destination="1" longueur="150" nomRue="" origine="3"/>
</reseau>`

func loadSmallMap(t *testing.T) *core.RoadGraph {
	t.Helper()
	g, err := ingest.LoadMap(strings.NewReader(smallMap))
	require.NoError(t, err)

	return g
}

func TestLoadMap(t *testing.T) {
	g := loadSmallMap(t)

	assert.Equal(t, 3, g.NumVertices())
	assert.Equal(t, 4, g.NumSections())
	it, err := g.Intersection("2")
	require.NoError(t, err)
	assert.Equal(t, 45.76, it.Latitude)
	assert.Equal(t, 4.86, it.Longitude)

	s := g.Sections()[2]
	assert.Equal(t, core.Section{Origin: "2", Destination: "3", Name: "Avenue Lacassagne", Length: 120.5}, s)
}

func TestLoadMap_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"not xml":        {`{"json": true}`, ingest.ErrMalformed},
		"bad latitude":   {`<reseau><noeud id="1" latitude="north" longitude="4"/></reseau>`, ingest.ErrMalformed},
		"bad length":     {`<reseau><noeud id="1" latitude="1" longitude="4"/><troncon origine="1" destination="1" longueur="x"/></reseau>`, ingest.ErrMalformed},
		"unknown origin": {`<reseau><noeud id="1" latitude="1" longitude="4"/><troncon origine="9" destination="1" longueur="3"/></reseau>`, core.ErrUnknownIntersection},
		"empty":          {`<reseau></reseau>`, core.ErrEmptyGraph},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ingest.LoadMap(strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadDeliveries(t *testing.T) {
	g := loadSmallMap(t)
	doc := `<demandeDeLivraisons>
  <entrepot adresse="1" heureDepart="8:0:0"/>
  <livraison adresseEnlevement="1" adresseLivraison="3" dureeEnlevement="180" dureeLivraison="240"/>
  <livraison adresseLivraison="2"/>
</demandeDeLivraisons>`

	d, err := ingest.LoadDeliveries(strings.NewReader(doc), g)
	require.NoError(t, err)
	assert.Equal(t, "1", d.Depot)
	assert.Equal(t, []string{"3", "2"}, d.Points)
}

func TestLoadDeliveries_Errors(t *testing.T) {
	g := loadSmallMap(t)
	cases := map[string]struct {
		doc  string
		want error
	}{
		"no warehouse":    {`<d><livraison adresseLivraison="2"/></d>`, ingest.ErrNoWarehouse},
		"no delivery":     {`<d><entrepot adresse="1"/></d>`, ingest.ErrNoDeliveries},
		"unknown depot":   {`<d><entrepot adresse="7"/><livraison adresseLivraison="2"/></d>`, core.ErrUnknownIntersection},
		"unknown address": {`<d><entrepot adresse="1"/><livraison adresseLivraison="8"/></d>`, core.ErrUnknownIntersection},
		"truncated":       {`<d><entrepot adresse="1"/>`, ingest.ErrMalformed},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ingest.LoadDeliveries(strings.NewReader(tc.doc), g)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := ingest.LoadDeliveries(strings.NewReader(`<d/>`), nil)
	assert.ErrorIs(t, err, core.ErrEmptyGraph)
}
