package folio

import "github.com/sirupsen/logrus"

// convertOptions holds configuration accumulated by the fluent calls.
type convertOptions struct {
	log *logrus.Logger
	ocr bool
}

func defaultOptions() convertOptions {
	return convertOptions{log: logrus.StandardLogger()}
}
