package bazi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveLuckWoodStrong(t *testing.T) {
	luck := DeriveLuck(Wood, LabelStrong)

	assert.Equal(t, []Element{Earth, Fire}, luck.Lucky)
	assert.Equal(t, []Element{Wood, Water}, luck.Unlucky)

	wantDirections := []string{"center", "northeast", "southwest", "south"}
	if diff := cmp.Diff(wantDirections, luck.Directions, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("directions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"yellow", "brown", "beige", "red", "orange", "purple"}, luck.Colors)
}

func TestDeriveLuckTable(t *testing.T) {
	cases := []struct {
		dm      Element
		label   Label
		lucky   []Element
		unlucky []Element
	}{
		{Fire, LabelStrong, []Element{Metal, Earth}, []Element{Fire, Wood}},
		{Metal, LabelStrong, []Element{Wood, Water}, []Element{Metal, Earth}},
		{Water, LabelWeak, []Element{Water, Metal}, []Element{Wood, Earth}},
		{Metal, LabelWeak, []Element{Metal, Earth}, []Element{Water, Fire}},
		{Earth, LabelWeak, []Element{Earth, Fire}, []Element{Metal, Wood}},
	}
	for _, tc := range cases {
		t.Run(string(tc.dm)+"/"+tc.label.English(), func(t *testing.T) {
			luck := DeriveLuck(tc.dm, tc.label)
			assert.Equal(t, tc.lucky, luck.Lucky)
			assert.Equal(t, tc.unlucky, luck.Unlucky)
		})
	}
}

func TestDeriveLuckDisjointAndNonEmpty(t *testing.T) {
	for _, e := range Elements() {
		for _, label := range Labels() {
			luck := DeriveLuck(e, label)
			require.NotEmpty(t, luck.Lucky, "%s/%s", e, label)
			require.NotEmpty(t, luck.Unlucky, "%s/%s", e, label)
			require.NotEmpty(t, luck.Directions, "%s/%s", e, label)
			require.NotEmpty(t, luck.Colors, "%s/%s", e, label)
			for _, l := range luck.Lucky {
				assert.NotContains(t, luck.Unlucky, l, "%s/%s", e, label)
			}
		}
	}
}

func TestDeriveLuckUnknownLabelPanics(t *testing.T) {
	assert.Panics(t, func() { DeriveLuck(Wood, Label("中和")) })
}

func TestLuckyDirectionsDeduplicates(t *testing.T) {
	got := LuckyDirections([]Element{Earth, Earth, Water})
	assert.Equal(t, []string{"center", "northeast", "southwest", "north"}, got)

	colors := LuckyColors([]Element{Metal, Metal})
	assert.Equal(t, []string{"white", "silver", "gold"}, colors)

	assert.Empty(t, LuckyDirections(nil))
}

func TestDirectionsReturnsCopy(t *testing.T) {
	d := Directions(Wood)
	d[0] = "up"
	assert.Equal(t, []string{"east", "southeast"}, Directions(Wood))
}
