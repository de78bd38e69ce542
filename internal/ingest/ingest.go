// Package ingest reads the XML map and delivery-request files.
//
// Map file:
//
//	<reseau>
//	  <noeud id="1" latitude="45.75" longitude="4.85"/>
//	  <troncon origine="1" destination="2" longueur="69.97" nomRue="Rue Danton"/>
//	</reseau>
//
// Delivery file:
//
//	<demandeDeLivraisons>
//	  <entrepot adresse="1" heureDepart="8:0:0"/>
//	  <livraison adresseLivraison="2"/>
//	</demandeDeLivraisons>
//
// Root element names are not checked; only the children matter.
package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/courierround/core"
)

var (
	// ErrMalformed indicates XML that cannot be decoded or a bad attribute.
	ErrMalformed = errors.New("ingest: malformed document")

	// ErrNoWarehouse indicates a delivery file without <entrepot>.
	ErrNoWarehouse = errors.New("ingest: no warehouse in delivery file")

	// ErrNoDeliveries indicates a delivery file without <livraison>.
	ErrNoDeliveries = errors.New("ingest: no delivery request in delivery file")
)

type mapDoc struct {
	Nodes    []nodeElem    `xml:"noeud"`
	Sections []sectionElem `xml:"troncon"`
}

type nodeElem struct {
	ID        string `xml:"id,attr"`
	Latitude  string `xml:"latitude,attr"`
	Longitude string `xml:"longitude,attr"`
}

type sectionElem struct {
	Origin      string `xml:"origine,attr"`
	Destination string `xml:"destination,attr"`
	Length      string `xml:"longueur,attr"`
	Street      string `xml:"nomRue,attr"`
}

type deliveryDoc struct {
	Warehouses []struct {
		Address string `xml:"adresse,attr"`
	} `xml:"entrepot"`
	Deliveries []struct {
		Address string `xml:"adresseLivraison,attr"`
	} `xml:"livraison"`
}

// Deliveries is the content of a delivery file.
type Deliveries struct {
	Depot  string   `json:"depot"`
	Points []string `json:"points"`
}

// LoadMap decodes a map file into a RoadGraph.
func LoadMap(r io.Reader) (*core.RoadGraph, error) {
	var doc mapDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: map: %v", ErrMalformed, err)
	}

	its := make([]core.Intersection, 0, len(doc.Nodes))
	for i, n := range doc.Nodes {
		lat, err := parseFloat(n.Latitude)
		if err != nil {
			return nil, fmt.Errorf("%w: noeud #%d latitude: %v", ErrMalformed, i+1, err)
		}
		lon, err := parseFloat(n.Longitude)
		if err != nil {
			return nil, fmt.Errorf("%w: noeud #%d longitude: %v", ErrMalformed, i+1, err)
		}
		its = append(its, core.Intersection{ID: strings.TrimSpace(n.ID), Latitude: lat, Longitude: lon})
	}

	secs := make([]core.Section, 0, len(doc.Sections))
	for i, s := range doc.Sections {
		length, err := parseFloat(s.Length)
		if err != nil {
			return nil, fmt.Errorf("%w: troncon #%d longueur: %v", ErrMalformed, i+1, err)
		}
		secs = append(secs, core.Section{
			Origin:      strings.TrimSpace(s.Origin),
			Destination: strings.TrimSpace(s.Destination),
			Name:        s.Street,
			Length:      length,
		})
	}

	g, err := core.NewRoadGraph(its, secs)
	if err != nil {
		return nil, fmt.Errorf("ingest: map: %w", err)
	}

	return g, nil
}

// LoadDeliveries decodes a delivery file and checks every address against g.
// The first <entrepot> is the depot.
func LoadDeliveries(r io.Reader, g *core.RoadGraph) (Deliveries, error) {
	if g == nil {
		return Deliveries{}, fmt.Errorf("ingest: deliveries: %w", core.ErrEmptyGraph)
	}
	var doc deliveryDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Deliveries{}, fmt.Errorf("%w: deliveries: %v", ErrMalformed, err)
	}
	if len(doc.Warehouses) == 0 {
		return Deliveries{}, ErrNoWarehouse
	}
	if len(doc.Deliveries) == 0 {
		return Deliveries{}, ErrNoDeliveries
	}

	out := Deliveries{
		Depot:  strings.TrimSpace(doc.Warehouses[0].Address),
		Points: make([]string, 0, len(doc.Deliveries)),
	}
	if !g.Has(out.Depot) {
		return Deliveries{}, fmt.Errorf("ingest: warehouse: %w: %q", core.ErrUnknownIntersection, out.Depot)
	}
	for _, d := range doc.Deliveries {
		addr := strings.TrimSpace(d.Address)
		if !g.Has(addr) {
			return Deliveries{}, fmt.Errorf("ingest: delivery: %w: %q", core.ErrUnknownIntersection, addr)
		}
		out.Points = append(out.Points, addr)
	}

	return out, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
