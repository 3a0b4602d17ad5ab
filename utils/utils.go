package utils

import (
	"context"
	"strings"

	"github.com/raushankrgupta/fitmate/logger"
)

// AddToLogMessage appends one entry to a request log buffer.
func AddToLogMessage(logMessagesBuilder *strings.Builder, strToAdd string) {
	logMessagesBuilder.WriteString(strToAdd)
	logMessagesBuilder.WriteString(";")
	logMessagesBuilder.WriteString("\n")
}

// FlushLogMessages writes the buffered request log as a single entry.
func FlushLogMessages(ctx context.Context, log logger.Logger, logMessagesBuilder *strings.Builder) {
	if logMessagesBuilder.Len() == 0 {
		return
	}
	log.Infof(ctx, "%s", strings.TrimSuffix(logMessagesBuilder.String(), "\n"))
}
