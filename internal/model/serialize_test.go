package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacilityCodec(t *testing.T) {
	t.Run("decodes hand written collection", func(t *testing.T) {
		content := `- name: Harbor Inn
  location: Lisbon
  capacity: 3
  contact_email: desk@harbor.example
- name: Pine Lodge
  location: Oslo
  capacity: 0
  contact_email: hello@pine.example
`
		facilities, err := FacilityCodec{}.Decode([]byte(content))
		require.NoError(t, err)
		require.Len(t, facilities, 2)

		assert.Equal(t, Facility{
			Name:         "Harbor Inn",
			Location:     "Lisbon",
			Capacity:     3,
			ContactEmail: "desk@harbor.example",
		}, facilities[0])
		assert.Equal(t, "Pine Lodge", facilities[1].Name)
		assert.Equal(t, 0, facilities[1].Capacity)
	})

	t.Run("encodes fields in fixed order", func(t *testing.T) {
		data, err := FacilityCodec{}.Encode([]Facility{
			{Name: "Harbor Inn", Location: "Lisbon", Capacity: 3, ContactEmail: "desk@harbor.example"},
		})
		require.NoError(t, err)

		expected := `- name: Harbor Inn
  location: Lisbon
  capacity: 3
  contact_email: desk@harbor.example
`
		assert.Equal(t, expected, string(data))
	})

	t.Run("encodes empty collection as empty sequence", func(t *testing.T) {
		data, err := FacilityCodec{}.Encode(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))

		facilities, err := FacilityCodec{}.Decode(data)
		require.NoError(t, err)
		assert.Empty(t, facilities)
	})

	t.Run("rejects negative capacity", func(t *testing.T) {
		_, err := FacilityCodec{}.Decode([]byte("- name: A\n  capacity: -1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative capacity")
	})

	t.Run("rejects non-sequence content", func(t *testing.T) {
		_, err := FacilityCodec{}.Decode([]byte("just some text"))
		assert.Error(t, err)

		_, err = FacilityCodec{}.Decode([]byte("[unterminated"))
		assert.Error(t, err)
	})

	t.Run("rejects non-integer capacity", func(t *testing.T) {
		_, err := FacilityCodec{}.Decode([]byte("- name: A\n  capacity: lots\n"))
		assert.Error(t, err)
	})
}

func TestCustomerCodec(t *testing.T) {
	t.Run("phone keeps leading zero", func(t *testing.T) {
		in := []Customer{{Name: "Ana", Email: "ana@example.com", Phone: "0123456789"}}

		data, err := CustomerCodec{}.Encode(in)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "phone: 0123456789", "value must be quoted")

		out, err := CustomerCodec{}.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("values that look like other types stay strings", func(t *testing.T) {
		in := []Customer{{Name: "true", Email: "null@example.com", Phone: "1234567890"}}

		data, err := CustomerCodec{}.Encode(in)
		require.NoError(t, err)

		out, err := CustomerCodec{}.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})
}

func TestReservationCodec(t *testing.T) {
	content := `- customer_email: c@x.com
  facility_name: H
- customer_email: c@x.com
  facility_name: H
`
	reservations, err := ReservationCodec{}.Decode([]byte(content))
	require.NoError(t, err)
	require.Len(t, reservations, 2, "duplicates are kept")
	assert.True(t, reservations[0].Matches("c@x.com", "H"))

	data, err := ReservationCodec{}.Encode(reservations)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "Harbor Inn", FacilityKey(Facility{Name: "Harbor Inn"}))
	assert.Equal(t, "c@x.com", CustomerKey(Customer{Email: "c@x.com"}))

	assert.Equal(t, PairKey("c@x.com", "H"), ReservationKey(Reservation{CustomerEmail: "c@x.com", FacilityName: "H"}))
	assert.NotEqual(t, PairKey("c@x.com", "H"), PairKey("c@x.co", "mH"))
	assert.Empty(t, PairKey("", "H"))
	assert.Empty(t, PairKey("c@x.com", ""))
}
