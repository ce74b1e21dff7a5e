package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestCompose_AllCriteria(t *testing.T) {
	p := Compose(
		AtLeast("salary", ptr(100000)),
		Flag("equity > 0", ptr(true)),
		ContainsFold("title", ptr("Eng")),
	)

	assert.Equal(t, []string{"salary >= $1", "equity > 0", "title ILIKE $2"}, p.Fragments)
	assert.Equal(t, []any{100000, "%Eng%"}, p.Values)
	assert.Equal(t, " WHERE salary >= $1 AND equity > 0 AND title ILIKE $2", p.Where())
}

func TestCompose_FlagFalseOmitted(t *testing.T) {
	p := Compose(
		AtLeast[int]("salary", nil),
		Flag("equity > 0", ptr(false)),
		ContainsFold("title", ptr("dev")),
	)

	assert.Equal(t, []string{"title ILIKE $1"}, p.Fragments)
	assert.Equal(t, []any{"%dev%"}, p.Values)
}

func TestCompose_Empty(t *testing.T) {
	p := Compose(AtLeast[int]("salary", nil), Flag("equity > 0", nil), ContainsFold("title", nil))

	assert.True(t, p.Empty())
	assert.NotNil(t, p.Fragments)
	assert.NotNil(t, p.Values)
	assert.Len(t, p.Values, 0)
	assert.Equal(t, "", p.Where())

	assert.True(t, Compose().Empty())
}

func TestCompose_FlagDoesNotConsumePlaceholder(t *testing.T) {
	p := Compose(
		Flag("equity > 0", ptr(true)),
		AtLeast("salary", ptr(5)),
		Equals("company_handle", ptr("acme")),
	)

	assert.Equal(t, []string{"equity > 0", "salary >= $1", "company_handle = $2"}, p.Fragments)
	assert.Equal(t, []any{5, "acme"}, p.Values)
}

func TestCompose_PlaceholderCountMatchesValues(t *testing.T) {
	salaries := []*int{nil, ptr(0), ptr(50)}
	flags := []*bool{nil, ptr(false), ptr(true)}
	titles := []*string{nil, ptr(""), ptr("x")}

	for _, s := range salaries {
		for _, f := range flags {
			for _, ti := range titles {
				p := Compose(AtLeast("salary", s), Flag("equity > 0", f), ContainsFold("title", ti))

				placeholders := 0
				for _, frag := range p.Fragments {
					if frag != "equity > 0" {
						placeholders++
					}
				}
				assert.Equal(t, len(p.Values), placeholders)
			}
		}
	}
}

func TestCompose_ZeroValuesArePresent(t *testing.T) {
	p := Compose(AtLeast("salary", ptr(0)), ContainsFold("title", ptr("")))

	assert.Equal(t, []string{"salary >= $1", "title ILIKE $2"}, p.Fragments)
	assert.Equal(t, []any{0, "%%"}, p.Values)
}

func TestCriterion_Present(t *testing.T) {
	assert.False(t, AtLeast[int]("a", nil).Present())
	assert.True(t, AtLeast("a", ptr(1)).Present())
	assert.False(t, Flag("x", ptr(false)).Present())
	assert.True(t, Flag("x", ptr(true)).Present())
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", Placeholder(1))
	assert.Equal(t, "$12", Placeholder(12))
}

func TestCompose_MinSalaryOnly(t *testing.T) {
	p := Compose(AtLeast("salary", ptr(50000)), Flag("equity > 0", nil), ContainsFold("title", nil))

	assert.Equal(t, []string{"salary >= $1"}, p.Fragments)
	assert.Equal(t, []any{50000}, p.Values)
}

func TestCompose_MinSalaryAndTitle(t *testing.T) {
	p := Compose(AtLeast("salary", ptr(50000)), Flag("equity > 0", nil), ContainsFold("title", ptr("engineer")))

	assert.Equal(t, []string{"salary >= $1", "title ILIKE $2"}, p.Fragments)
	assert.Equal(t, []any{50000, "%engineer%"}, p.Values)
}
