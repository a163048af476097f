package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/queue"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"99887766", "4799887766"},
		{"998 87 766", "4799887766"},
		{"+47 99887766", "4799887766"},
		{"004799887766", "4799887766"},
		{"+45 12 34 56 78", "4512345678"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestNormalizePhoneRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "123", "abc", "+47 123"} {
		_, err := NormalizePhone(in)
		assert.Error(t, err, in)
	}
}

func TestExtractPhone(t *testing.T) {
	assert.Equal(t, "4799887766", extractPhone("Kari Nordmann 99887766"))
	assert.Equal(t, "4799887766", extractPhone("Ola +47 998 87 766"))
	assert.Equal(t, "", extractPhone("Kari Nordmann"))
	assert.Equal(t, "", extractPhone(""))
}

func TestStatusMessage(t *testing.T) {
	p := queue.BlockStatusPayload{BlockTitle: "Åpning", Status: models.BlockStatusActive}
	assert.Equal(t, `Programposten "Åpning" er i gang.`, StatusMessage(p))

	p.Status = models.BlockStatusCompleted
	assert.Equal(t, `Programposten "Åpning" er ferdig.`, StatusMessage(p))

	p.Status = models.BlockStatusSkipped
	assert.Equal(t, `Programposten "Åpning" har status skipped.`, StatusMessage(p))
}
