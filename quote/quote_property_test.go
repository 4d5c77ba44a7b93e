package quote

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestProperty_EncodeURIComponent_RoundTrip: 任意 UTF-8 字符串编码后只含非保留字符与
// %XX 转义，且可被完整还原。
func TestProperty_EncodeURIComponent_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")

		enc := EncodeURIComponent(s)
		for i := 0; i < len(enc); i++ {
			if enc[i] == '%' {
				continue
			}
			assert.True(rt, unreserved(enc[i]), "unexpected byte %q in %q", enc[i], enc)
		}

		dec, err := url.PathUnescape(enc)
		require.NoError(rt, err)
		assert.Equal(rt, s, dec)
	})
}

// TestProperty_Compose_Pure: 相同草稿总是得到相同消息，链接始终由编码后的展示文本构成。
func TestProperty_Compose_Pure(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := Draft{
			ModelReference: rapid.String().Draw(rt, "ref"),
			EstimatedPrice: rapid.String().Draw(rt, "price"),
			IsFinalized:    rapid.Bool().Draw(rt, "finalized"),
		}
		c := testComposer()

		a, b := c.Compose(d), c.Compose(d)
		assert.Equal(rt, a, b)
		assert.True(rt, strings.HasPrefix(a.DisplayMessage, "Hi, make it an "))
		assert.Equal(rt, EncodeURIComponent(a.DisplayMessage), a.EmailBodyEncoded)
		assert.True(rt, strings.HasSuffix(a.WhatsAppLink, "?text="+a.EmailBodyEncoded))
		assert.True(rt, strings.HasSuffix(a.MailtoLink, "&body="+a.EmailBodyEncoded))
	})
}

// TestProperty_Desk_MatchesModel: 任意操作序列下 Desk 与参考模型保持一致。
func TestProperty_Desk_MatchesModel(t *testing.T) {
	ops := []string{"openBlank", "prepare", "setReference", "confirm", "reset", "close"}

	rapid.Check(t, func(rt *rapid.T) {
		d := NewDesk()
		var want State

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.SampledFrom(ops).Draw(rt, "op") {
			case "openBlank":
				d.OpenBlank()
				want.Open = true
				want.Draft.IsFinalized = false
			case "prepare":
				ref := rapid.StringMatching(`(https://example\.com/[a-z-]{1,12})?`).Draw(rt, "ref")
				price := rapid.StringMatching(`(\$[0-9]{1,2}\.[0-9]{2})?`).Draw(rt, "price")
				d.PrepareQuote(ref, price)
				want = State{Draft: Draft{ModelReference: ref, EstimatedPrice: price, IsFinalized: true}, Open: true}
			case "setReference":
				ref := rapid.StringMatching(`[ a-z]{0,6}`).Draw(rt, "manualRef")
				d.SetReference(ref)
				want.Draft.ModelReference = ref
			case "confirm":
				err := d.ConfirmDraft()
				if strings.TrimSpace(want.Draft.ModelReference) == "" {
					assert.Error(rt, err)
				} else {
					assert.NoError(rt, err)
					want.Draft.IsFinalized = true
				}
			case "reset":
				d.Reset()
				want.Draft = Draft{}
			case "close":
				d.Close()
				want.Open = false
			}

			require.Equal(rt, want, d.State())
		}
	})
}
