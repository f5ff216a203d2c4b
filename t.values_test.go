package docxfill

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnyToValuesMapStringString(t *testing.T) {
	inValues := map[string]string{
		"Name":     "Alice",
		"Greeting": "Hi!",
	}

	outValues := AnyToValues(inValues)
	require.Equal(t, len(inValues), outValues.Len())

	for k, v := range inValues {
		got, ok := outValues.Get(k)
		require.True(t, ok, "value `%s` not found", k)
		assert.Equal(t, v, got)
	}
}

func TestAnyToValuesMapStringAny(t *testing.T) {
	type dummyTestType int

	inValues := map[string]any{
		"Name":     "Bob",
		"Age":      uint(28),
		"FavColor": dummyTestType(0xF00),
		"Admin":    true,
	}

	outValues := AnyToValues(inValues)
	require.Equal(t, len(inValues), outValues.Len())

	for k, v := range inValues {
		got, ok := outValues.Get(k)
		require.True(t, ok, "value `%s` not found", k)
		assert.Equal(t, fmt.Sprintf("%v", v), got)
	}
}

func TestAnyToValuesStruct(t *testing.T) {
	// disable log output for tests
	wr := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(wr)

	type Job struct {
		Company  string `json:"Company Name"`
		Position string `json:"Position Title"`
		Salary   float64
		Tags     []string
		Manager  *string
	}

	values := AnyToValues(Job{Company: "Acme", Position: "Engineer", Salary: 1234.5, Tags: []string{"go"}})
	assert.Equal(t, Values{
		"[Company Name]":   "Acme",
		"[Position Title]": "Engineer",
		"[Salary]":         "1234.5",
	}, values)
}

func TestJSONToValues(t *testing.T) {
	wr := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(wr)

	values := AnyToValues([]byte(`{"Company": "Acme", "Big": 12345678901234567890, "Nested": {"a": 1}}`))
	assert.Equal(t, Values{
		"[Company]": "Acme",
		"[Big]":     "12345678901234567890",
	}, values)

	assert.Nil(t, JSONToValues([]byte(`not json`)))
}

func TestValuesNormalizeAndMerge(t *testing.T) {
	values := Values{"Company": "Acme", "[Date]": "2026-01-02"}
	assert.Equal(t, Values{"[Company]": "Acme", "[Date]": "2026-01-02"}, values.Normalize())

	merged := Merge(
		Values{"[A]": "first", "B": "b"},
		nil,
		Values{"A": "second"},
	)
	assert.Equal(t, Values{"[A]": "second", "[B]": "b"}, merged)
	assert.Equal(t, []string{"[A]", "[B]"}, merged.Keys())
}

func TestValuesSetGet(t *testing.T) {
	values := Values{}
	values.Set("Company Name", "Acme")

	got, ok := values.Get("[Company Name]")
	assert.True(t, ok)
	assert.Equal(t, "Acme", got)

	_, ok = values.Get("Missing")
	assert.False(t, ok)
}
