package collaborators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeLocation(t *testing.T) {
	// "São" spelled with a combining tilde
	decomposed := "Sa\u0303o Paulo"

	got, err := ComposeLocation(decomposed, " SP ", "Brasil")
	require.NoError(t, err)
	assert.Equal(t, "S\u00e3o Paulo, SP, Brasil", got)

	_, err = ComposeLocation("São Paulo", "", "Brasil")
	assert.Error(t, err)

	_, err = ComposeLocation("São Paulo, SP", "SP", "Brasil")
	assert.Error(t, err)
}

func TestParseLocation(t *testing.T) {
	city, region, country, ok := ParseLocation("São Paulo, SP, Brasil")
	assert.True(t, ok)
	assert.Equal(t, "São Paulo", city)
	assert.Equal(t, "SP", region)
	assert.Equal(t, "Brasil", country)

	for _, bad := range []string{"", "São Paulo", "a, b", "a, , c", "a, b, c, d"} {
		_, _, _, ok := ParseLocation(bad)
		assert.False(t, ok, bad)
	}
}

func TestStaticDirectory(t *testing.T) {
	dir := DefaultDirectory()

	countries := dir.Countries()
	assert.Equal(t, []string{"Brasil", "Portugal", "United States"}, countries)

	assert.Contains(t, dir.Regions("Brasil"), "SP")
	assert.Empty(t, dir.Regions("Atlantis"))

	cities := dir.Cities("Brasil", "SP")
	assert.Equal(t, []string{"Campinas", "Ribeirão Preto", "Santos", "São Paulo"}, cities)
	assert.Empty(t, dir.Cities("Brasil", "XX"))

	// callers may not mutate the directory through the returned slice
	cities[0] = "mutated"
	assert.Equal(t, "Campinas", dir.Cities("Brasil", "SP")[0])
}

func TestStaticDirectory_ComposesValidLocation(t *testing.T) {
	dir := DefaultDirectory()
	country := dir.Countries()[0]
	region := dir.Regions(country)[0]
	city := dir.Cities(country, region)[0]

	loc, err := ComposeLocation(city, region, country)
	require.NoError(t, err)
	_, _, _, ok := ParseLocation(loc)
	assert.True(t, ok)
}

func TestE164Formatter(t *testing.T) {
	f := NewE164Formatter("+55")

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"+55 11 99999-9999", "+5511999999999", false},
		{"(11) 99999-9999", "+5511999999999", false},
		{"011 99999 9999", "+5511999999999", false},
		{"0044 20 7946 0958", "+442079460958", false},
		{"+1 (415) 555.0100", "+14155550100", false},
		{"abc", "", true},
		{"+", "", true},
	}

	for _, tt := range tests {
		got, err := f.Format(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
