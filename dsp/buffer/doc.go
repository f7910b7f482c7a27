// Package buffer provides reusable complex sample buffers and the
// re-blocking FIFO that turns arbitrarily sized chunks into fixed-size
// blocks for block-based processors.
package buffer
