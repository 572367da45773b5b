package field

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parse", func() {
	Describe("dates", func() {
		var (
			raw    string
			value  any
			parsed bool
		)

		JustBeforeEach(func() {
			value, parsed = Parse(raw, TypeDate)
		})

		When("parsing a textual month date", func() {
			BeforeEach(func() {
				raw = "Nov 3, 2025"
			})

			It("should parse", func() {
				Expect(parsed).To(BeTrue())
			})

			It("should yield the calendar date", func() {
				Expect(value).To(Equal(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)))
			})
		})

		When("parsing a two-digit-year slash date", func() {
			BeforeEach(func() {
				raw = "11/03/25"
			})

			It("should yield the same calendar date", func() {
				Expect(parsed).To(BeTrue())
				Expect(value).To(Equal(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)))
			})
		})

		When("parsing a four-digit-year slash date", func() {
			BeforeEach(func() {
				raw = "11/03/2025"
			})

			It("should parse the numeric form before textual fallbacks", func() {
				Expect(parsed).To(BeTrue())
				Expect(value).To(Equal(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)))
			})
		})

		When("parsing an ISO date", func() {
			BeforeEach(func() {
				raw = "2025-11-03"
			})

			It("should parse", func() {
				Expect(parsed).To(BeTrue())
				Expect(value).To(Equal(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)))
			})
		})

		When("parsing a day-first textual date", func() {
			BeforeEach(func() {
				raw = "3 Nov 2025"
			})

			It("should parse", func() {
				Expect(parsed).To(BeTrue())
				Expect(value).To(Equal(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)))
			})
		})

		When("parsing garbage", func() {
			BeforeEach(func() {
				raw = "not-a-date"
			})

			It("should not parse", func() {
				Expect(parsed).To(BeFalse())
				Expect(value).To(BeNil())
			})
		})
	})

	Describe("currency and numbers", func() {
		It("should strip symbols and separators", func() {
			value, ok := Parse("$1,234.56", TypeCurrency)
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal(1234.56))
		})

		It("should tolerate a space after the currency symbol", func() {
			value, ok := Parse("$ 128.34", TypeCurrency)
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal(128.34))
		})

		It("should parse plain numbers with separators", func() {
			value, ok := Parse("1,234", TypeNumber)
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal(1234.0))
		})

		It("should reject residue after stripping", func() {
			_, ok := Parse("128.34 CR", TypeCurrency)
			Expect(ok).To(BeFalse())
		})

		It("should reject non-numeric text", func() {
			_, ok := Parse("see bill", TypeNumber)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("integers", func() {
		It("should capture the leading digit run", func() {
			value, ok := Parse("30 days", TypeInteger)
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal(30))
		})

		It("should reject text without digits", func() {
			_, ok := Parse("none", TypeInteger)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("empty input", func() {
		It("should never parse", func() {
			for _, t := range []SemanticType{TypeDate, TypeCurrency, TypeInteger, TypeNumber} {
				_, ok := Parse("  ", t)
				Expect(ok).To(BeFalse())
			}
		})
	})
})
