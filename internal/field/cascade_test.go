package field

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Extract", func() {
	var (
		def        Definition
		candidates []string
		value      string
	)

	JustBeforeEach(func() {
		value = Extract(def, candidates)
	})

	When("an earlier pattern and a later pattern both match", func() {
		BeforeEach(func() {
			def = Definition{
				Name: "test", Type: TypeNumber,
				Patterns: []string{`x(\d+)`, `(\d+)`},
			}
			def.compiled = compilePatterns("test", def.Name, def.Patterns)
			candidates = []string{"7 x42"}
		})

		It("should return the first pattern's result", func() {
			Expect(value).To(Equal("42"))
		})
	})

	When("the specific range pattern precedes the generic date pattern", func() {
		BeforeEach(func() {
			def, _ = Lookup("gas", "bill_date")
			candidates = []string{"10/01/25 - 10/31/25"}
		})

		It("should capture the billing-period end date", func() {
			Expect(value).To(Equal("10/31/25"))
		})
	})

	When("the first candidate has no match but the second does", func() {
		BeforeEach(func() {
			def, _ = Lookup("electric", "total_cost")
			candidates = []string{"Total Due", "$128.34"}
		})

		It("should extract from the second candidate", func() {
			Expect(value).To(Equal("128.34"))
		})
	})

	When("patterns match the first candidate", func() {
		BeforeEach(func() {
			def, _ = Lookup("electric", "usage_kwh")
			candidates = []string{"1,234 kWh", "1,234 kWh Nov 3, 2025"}
		})

		It("should never look at later candidates", func() {
			Expect(value).To(Equal("1,234"))
		})
	})

	When("no pattern matches any candidate", func() {
		BeforeEach(func() {
			def, _ = Lookup("electric", "total_cost")
			candidates = []string{"see reverse side", "contact support"}
		})

		It("should fall back to the first candidate's raw text", func() {
			Expect(value).To(Equal("see reverse side"))
		})
	})

	When("there are no candidates", func() {
		BeforeEach(func() {
			def, _ = Lookup("electric", "total_cost")
			candidates = nil
		})

		It("should return empty", func() {
			Expect(value).To(BeEmpty())
		})
	})
})

var _ = Describe("Match", func() {
	It("should return empty instead of raw text when nothing matches", func() {
		def, _ := Lookup("electric", "total_cost")
		Expect(Match(def, "Amount Due")).To(BeEmpty())
	})

	It("should match case-insensitively", func() {
		def, _ := Lookup("electric", "usage_kwh")
		Expect(Match(def, "1,234 KWH")).To(Equal("1,234"))
	})
})

var _ = Describe("ExtractWithPattern", func() {
	var (
		text    string
		pattern string
		value   string
	)

	JustBeforeEach(func() {
		value = ExtractWithPattern(text, pattern)
	})

	When("the pattern has a capturing group", func() {
		BeforeEach(func() {
			text = "Amount Due $128.34"
			pattern = `\$\s*([\d,]+\.?\d*)`
		})

		It("should return the group", func() {
			Expect(value).To(Equal("128.34"))
		})
	})

	When("the pattern has no group", func() {
		BeforeEach(func() {
			text = "30 days"
			pattern = `\d+ days`
		})

		It("should return the whole match", func() {
			Expect(value).To(Equal("30 days"))
		})
	})

	When("the pattern does not compile", func() {
		BeforeEach(func() {
			text = "$128.34"
			pattern = `([unclosed`
		})

		It("should be treated as a non-match", func() {
			Expect(value).To(BeEmpty())
		})
	})
})
