package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMailer(t *testing.T) {
	t.Parallel()

	require.Nil(t, NewMailer("", "", "ops@shop.test"))
	require.Nil(t, NewMailer("SG.key", "", ""))

	m := NewMailer("SG.key", "", "ops@shop.test")
	require.NotNil(t, m)
	require.Equal(t, "no-reply@storefront.local", m.From)
	require.Equal(t, "ops@shop.test", m.To)

	m = NewMailer("SG.key", "shop@shop.test", "ops@shop.test")
	require.Equal(t, "shop@shop.test", m.From)
}
