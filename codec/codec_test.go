package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name   string  `json:"name"`
	Value  Float   `json:"value"`
	Others []Float `json:"others"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_FloatRoundTrip(t *testing.T) {
	in := doc{
		Name:   "raw",
		Value:  Float(math.NaN()),
		Others: []Float{Float(math.Inf(1)), Float(math.Inf(-1)), 0.25, -3e-300},
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(in)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"value":"NaN"`)

			var out doc
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, "raw", out.Name)
			assert.True(t, math.IsNaN(float64(out.Value)))
			assert.True(t, math.IsInf(float64(out.Others[0]), 1))
			assert.True(t, math.IsInf(float64(out.Others[1]), -1))
			assert.Equal(t, Float(0.25), out.Others[2])
			assert.Equal(t, Float(-3e-300), out.Others[3])
		})
	}
}

func TestCodecs_Interchangeable(t *testing.T) {
	data := MustMarshal(JSON{}, doc{Name: "logit", Value: 1.5})

	var out doc
	require.NoError(t, GoJSON{}.Unmarshal(data, &out))
	assert.Equal(t, Float(1.5), out.Value)
}

func TestFloat_UnmarshalInvalid(t *testing.T) {
	var f Float
	assert.Error(t, f.UnmarshalJSON([]byte(`"abc"`)))
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}
