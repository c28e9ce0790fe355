// Package handlers maps HTTP requests onto the credential service, the todo
// store, and the event publisher. Error bodies are always {"error": message}.
package handlers

import "time"

// timeNow is swappable in tests.
var timeNow = func() time.Time { return time.Now().UTC() }
