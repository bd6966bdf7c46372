package types_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/diskwatch-io/diskwatch/types"
)

var _ = Describe("Logger", func() {
	var buf *bytes.Buffer
	var logger types.Logger

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		logger = types.NewBufferLogger(buf)
	})

	It("emits structured fields to the buffer", func() {
		logger.Logger.Info().Str("disk", "/dev/sda").Msg("Classifying disk")
		Expect(buf.String()).To(ContainSubstring(`"disk":"/dev/sda"`))
		Expect(buf.String()).To(ContainSubstring("Classifying disk"))
	})

	It("filters below the configured level", func() {
		logger.SetLevel("error")
		logger.Logger.Info().Msg("quiet")
		Expect(buf.String()).To(BeEmpty())

		logger.Logger.Error().Msg("loud")
		Expect(buf.String()).To(ContainSubstring("loud"))
	})

	It("reports debug level", func() {
		Expect(logger.IsDebug()).To(BeFalse())
		logger.SetLevel("debug")
		Expect(logger.IsDebug()).To(BeTrue())
	})

	It("survives cleanup without a file backing", func() {
		logger.Cleanup()
		logger.Logger.Info().Msg("still fine")
		Expect(buf.String()).To(ContainSubstring("still fine"))
	})
})
