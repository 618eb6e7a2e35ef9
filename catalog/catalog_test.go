package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pumpstation/hydraulics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pumpsJSON = `[
  {"id": "kbs-100", "brand": "KSB", "model": "Etanorm 100-250",
   "curva": [{"Q": 0, "H": 120}, {"Q": 50, "H": 110}, {"Q": 100, "H": 80}],
   "efficiency": [{"Q": 0, "eta": 0.3}, {"Q": 50, "eta": 0.78}, {"Q": 100, "eta": 0.7}],
   "NPSHr": 4.2},
  {"id": "grf-65", "brand": "Grundfos", "model": "NK 65-200",
   "curva": [{"Q": 40, "H": 48}]}
]`

func TestDecode(t *testing.T) {
	c, err := Decode(strings.NewReader(pumpsJSON))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	p, err := c.Get("kbs-100")
	require.NoError(t, err)
	assert.Equal(t, "KSB", p.Brand)
	assert.Equal(t, "Etanorm 100-250", p.Model)
	assert.Equal(t, hydraulics.CurvePoint{Flow: 50, Value: 110}, p.HeadCurve[1])
	assert.Equal(t, hydraulics.CurvePoint{Flow: 50, Value: 0.78}, p.EfficiencyCurve[1])
	require.NotNil(t, p.NPSHRequiredM)
	assert.Equal(t, 4.2, *p.NPSHRequiredM)

	g, err := c.Get("grf-65")
	require.NoError(t, err)
	assert.Nil(t, g.EfficiencyCurve)
	assert.Nil(t, g.NPSHRequiredM)

	ids := []string{}
	for _, p := range c.List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"kbs-100", "grf-65"}, ids)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pumps.json")
	require.NoError(t, os.WriteFile(path, []byte(pumpsJSON), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestGet_NotFound(t *testing.T) {
	c, err := Decode(strings.NewReader(pumpsJSON))
	require.NoError(t, err)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_ReturnsCopy(t *testing.T) {
	c, err := Decode(strings.NewReader(pumpsJSON))
	require.NoError(t, err)

	p, _ := c.Get("kbs-100")
	p.HeadCurve[0].Value = -1
	*p.NPSHRequiredM = 99

	again, _ := c.Get("kbs-100")
	assert.Equal(t, 120.0, again.HeadCurve[0].Value)
	assert.Equal(t, 4.2, *again.NPSHRequiredM)
}

func TestNew_Validation(t *testing.T) {
	neg := -1.0
	head := []hydraulics.CurvePoint{{Flow: 0, Value: 10}}

	tests := []struct {
		name  string
		pumps []hydraulics.PumpSpec
		field string
		want  error
	}{
		{"empty id", []hydraulics.PumpSpec{{HeadCurve: head}}, "id", ErrInvalidPump},
		{"empty curve", []hydraulics.PumpSpec{{ID: "a"}}, "curva", ErrInvalidPump},
		{"negative flow", []hydraulics.PumpSpec{{ID: "a", HeadCurve: []hydraulics.CurvePoint{{Flow: -1, Value: 10}}}}, "curva", ErrInvalidPump},
		{"percent efficiency", []hydraulics.PumpSpec{{ID: "a", HeadCurve: head, EfficiencyCurve: []hydraulics.CurvePoint{{Flow: 0, Value: 78}}}}, "efficiency", ErrInvalidPump},
		{"zero efficiency", []hydraulics.PumpSpec{{ID: "a", HeadCurve: head, EfficiencyCurve: []hydraulics.CurvePoint{{Flow: 0, Value: 0}}}}, "efficiency", ErrInvalidPump},
		{"negative NPSH", []hydraulics.PumpSpec{{ID: "a", HeadCurve: head, NPSHRequiredM: &neg}}, "NPSHr", ErrInvalidPump},
		{"duplicate id", []hydraulics.PumpSpec{{ID: "a", HeadCurve: head}, {ID: "a", HeadCurve: head}}, "id", ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.pumps)
			require.ErrorIs(t, err, tt.want)

			var pe *PumpError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"id": "not-a-list"}`))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	head := []hydraulics.CurvePoint{{Flow: 0, Value: 10}}
	base, err := New([]hydraulics.PumpSpec{{ID: "a", Brand: "old", HeadCurve: head}, {ID: "b", HeadCurve: head}})
	require.NoError(t, err)
	over, err := New([]hydraulics.PumpSpec{{ID: "a", Brand: "new", HeadCurve: head}, {ID: "c", HeadCurve: head}})
	require.NoError(t, err)

	m := base.Merge(over)
	assert.Equal(t, 3, m.Len())

	a, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "new", a.Brand)

	_, err = m.Get("b")
	assert.NoError(t, err)
	assert.Equal(t, 0, Empty().Len())
}
