package dga

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in      string
		wantAll bool
		want    []string
	}{
		{"All", true, nil},
		{"all", true, nil},
		{" ALL ", true, nil},
		{"Hydrogen", false, []string{"Hydrogen"}},
		{"Hydrogen, Methane,Hydrogen", false, []string{"Hydrogen", "Methane"}},
		{"", false, nil},
		{" , ", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sel := ParseSelector(tt.in)
			assert.Equal(t, tt.wantAll, sel.IsAll())
			switch {
			case tt.wantAll:
				assert.Nil(t, sel.Names())
			case len(tt.want) == 0:
				assert.Empty(t, sel.Names())
			default:
				assert.Equal(t, tt.want, sel.Names())
			}
		})
	}
}

func TestSelectorString(t *testing.T) {
	assert.Equal(t, "All", All().String())
	assert.Equal(t, "T1,T2", Only("T1", "T2", "T1").String())
}

func TestSelectorResolve(t *testing.T) {
	known := []string{"T3", "T1", "T2"}

	got, err := All().resolve("unit", known)
	require.NoError(t, err)
	assert.Equal(t, known, got)

	got, err = Only("T2", "T3").resolve("unit", known)
	require.NoError(t, err)
	assert.Equal(t, []string{"T2", "T3"}, got)

	_, err = Only("T9").resolve("unit", known)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "unit", cfgErr.Field)
	assert.Equal(t, "T9", cfgErr.Value)

	_, err = Selector{}.resolve("unit", known)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `data error: column "Date": missing`, (&DataError{Column: "Date", Reason: "missing"}).Error())
	assert.Equal(t, "data error: empty file", (&DataError{Reason: "empty file"}).Error())
	assert.Equal(t, `configuration error: gas "Nitrogen": not recognised`,
		(&ConfigurationError{Field: "gas", Value: "Nitrogen", Reason: "not recognised"}).Error())
	assert.False(t, errors.Is(&DataError{}, ErrConfiguration))
}

func TestDefaultGases_FreshSlice(t *testing.T) {
	a := DefaultGases()
	a[0] = "Nitrogen"
	assert.Equal(t, Hydrogen, DefaultGases()[0])
	assert.Len(t, DefaultGases(), 7)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "", Missing.String())
	assert.Equal(t, "1.5", Some(1.5).String())
	assert.Equal(t, "120", Some(120).String())
}

func TestThresholdNames(t *testing.T) {
	th := Thresholds{Methane: 120, Hydrogen: 100}
	assert.Equal(t, []string{Hydrogen, Methane}, th.Names(DefaultGases()))
}
