package httpserver

import "time"

// ShutdownTimeout controls how long to wait for in-flight requests and queued
// moderation jobs during a graceful shutdown.
var ShutdownTimeout = 15 * time.Second
