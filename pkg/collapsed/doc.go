// Package collapsed parses the collapsed stack format consumed by the flame
// graph renderer.
//
// Each line holds one observed call stack with its frames joined by
// semicolons, outermost first, followed by a sample weight:
//
//	main;handleRequest;parseHeaders 12
//
// A second weight turns the line into a differential record, pairing a
// baseline count with a comparison count:
//
//	main;handleRequest;parseHeaders 12 17
//
// [ParseLine] classifies a single line without side effects. [Reader]
// iterates over a stream, skipping empty and malformed lines and tallying
// them in a [Stats] value so the caller can report one aggregated diagnostic
// per category once the whole input has been consumed.
package collapsed
