package alfresco

import "errors"

var (
	// ErrTransport - сетевой сбой (DNS, отказ соединения и т.п.).
	// Никогда не повторяется автоматически, всегда отдается вызывающему.
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse - конверт ответа не содержит ровно одно из entry/error
	ErrMalformedResponse = errors.New("malformed repository response")
)
