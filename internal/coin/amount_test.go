package coin

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/playtoearn/coinserver/internal/model"
)

type AmountSuite struct {
	suite.Suite
}

func TestAmountSuite(t *testing.T) {
	suite.Run(t, new(AmountSuite))
}

func (s *AmountSuite) TestParseValid() {
	a, err := Parse("277777800000000")
	s.Require().NoError(err)
	s.Equal("277777800000000", a.String())
}

func (s *AmountSuite) TestParseZero() {
	a, err := Parse("0")
	s.Require().NoError(err)
	s.True(a.IsZero())
}

func (s *AmountSuite) TestParseBeyondInt64() {
	// 30 digits, far past the int64 range
	a, err := Parse("277777800000000277777800000000")
	s.Require().NoError(err)
	s.Equal("277777800000000277777800000000", a.String())
}

func (s *AmountSuite) TestParseRejectsNegative() {
	_, err := Parse("-5")
	s.ErrorIs(err, model.ErrInvalidAmount)
}

func (s *AmountSuite) TestParseRejectsNonInteger() {
	for _, in := range []string{"", "abc", "1.5", "1e9"} {
		_, err := Parse(in)
		s.ErrorIs(err, model.ErrInvalidAmount, in)
	}
}

func (s *AmountSuite) TestMulSecondsExact() {
	rate := MustParse("1000")
	s.Equal("10000", rate.MulSeconds(10).String())
}

func (s *AmountSuite) TestMulSecondsZeroElapsed() {
	rate := MustParse(DefaultRate)
	s.True(rate.MulSeconds(0).IsZero())
}

func (s *AmountSuite) TestMulSecondsClampsNegative() {
	rate := MustParse(DefaultRate)
	s.True(rate.MulSeconds(-30).IsZero())
}

func (s *AmountSuite) TestMulSecondsNoOverflow() {
	rate := MustParse("999999999999999999999999")
	got := rate.MulSeconds(1000000)
	s.Equal("999999999999999999999999000000", got.String())
}

func (s *AmountSuite) TestAdd() {
	a := MustParse("100").Add(MustParse("23"))
	s.Equal("123", a.String())
}

func (s *AmountSuite) TestZeroValueIsUsable() {
	var a Amount
	s.True(a.IsZero())
	s.Equal("0", a.String())
	s.Equal("0.00", FormatHuman(a))
}

func (s *AmountSuite) TestFormatHuman() {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"277777800000000", "0.00"},              // 15 digits, sub-unit
		{"999999999999999", "0.00"},              // still 15 digits
		{"1234567890123456", "0.01"},             // 16 digits -> "1" remains
		{"91234567890123456", "0.91"},            // 17 digits -> "91" remains
		{"12345678901234567", "0.12"},            // 17 digits -> "12" remains
		{"123456789012345678", "1.23"},           // 18 digits -> "123" remains
		{"277777800000000277777800000000", "2777778000000.00"}, // 30 digits -> 15 remaining
	}
	for _, c := range cases {
		s.Equal(c.want, FormatHuman(MustParse(c.in)), c.in)
	}
}

func (s *AmountSuite) TestFormatHumanTruncatesNotRounds() {
	// 199... would round up at the sub-unit boundary; truncation must not
	a := MustParse("1999999999999999")
	s.Equal("0.01", FormatHuman(a))
}
