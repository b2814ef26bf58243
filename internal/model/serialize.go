package model

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FacilityCodec encodes facility collections as a YAML sequence of mappings.
type FacilityCodec struct{}

// Encode renders facilities in stored order with fields in a fixed order.
func (FacilityCodec) Encode(facilities []Facility) ([]byte, error) {
	seq := newSequence()
	for _, f := range facilities {
		node := &yaml.Node{Kind: yaml.MappingNode}
		addStringField(node, "name", f.Name)
		addStringField(node, "location", f.Location)
		addIntField(node, "capacity", f.Capacity)
		addStringField(node, "contact_email", f.ContactEmail)
		seq.Content = append(seq.Content, node)
	}
	return encode(seq, "facilities")
}

// Decode parses a facility collection. A negative capacity is rejected since
// it can never have been written by lodge.
func (FacilityCodec) Decode(data []byte) ([]Facility, error) {
	var facilities []Facility
	if err := yaml.Unmarshal(data, &facilities); err != nil {
		return nil, err
	}
	for _, f := range facilities {
		if f.Capacity < 0 {
			return nil, fmt.Errorf("facility %q has negative capacity %d", f.Name, f.Capacity)
		}
	}
	return facilities, nil
}

// CustomerCodec encodes customer collections.
type CustomerCodec struct{}

// Encode renders customers in stored order.
func (CustomerCodec) Encode(customers []Customer) ([]byte, error) {
	seq := newSequence()
	for _, c := range customers {
		node := &yaml.Node{Kind: yaml.MappingNode}
		addStringField(node, "name", c.Name)
		addStringField(node, "email", c.Email)
		addStringField(node, "phone", c.Phone)
		seq.Content = append(seq.Content, node)
	}
	return encode(seq, "customers")
}

// Decode parses a customer collection.
func (CustomerCodec) Decode(data []byte) ([]Customer, error) {
	var customers []Customer
	if err := yaml.Unmarshal(data, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// ReservationCodec encodes reservation collections.
type ReservationCodec struct{}

// Encode renders reservations in stored order.
func (ReservationCodec) Encode(reservations []Reservation) ([]byte, error) {
	seq := newSequence()
	for _, r := range reservations {
		node := &yaml.Node{Kind: yaml.MappingNode}
		addStringField(node, "customer_email", r.CustomerEmail)
		addStringField(node, "facility_name", r.FacilityName)
		seq.Content = append(seq.Content, node)
	}
	return encode(seq, "reservations")
}

// Decode parses a reservation collection.
func (ReservationCodec) Decode(data []byte) ([]Reservation, error) {
	var reservations []Reservation
	if err := yaml.Unmarshal(data, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func newSequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode}
}

func encode(seq *yaml.Node, what string) ([]byte, error) {
	// An empty block sequence has no representation; use the flow form.
	if len(seq.Content) == 0 {
		seq.Style = yaml.FlowStyle
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", what, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", what, err)
	}
	return buf.Bytes(), nil
}

// Helper functions for building yaml.Node

func addStringField(node *yaml.Node, key, value string) {
	// The explicit !!str tag makes the encoder quote values such as "0123"
	// or "true" that would otherwise resolve to another type.
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: "!!str"},
	)
}

func addIntField(node *yaml.Node, key string, value int) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%d", value), Tag: "!!int"},
	)
}
