// Package fraction implements the order-key algebra for reorderable lists.
//
// Every item in a list carries a non-negative rational key. Display order is
// the ascending order of those keys under Compare, which cross-multiplies in
// 128 bits and never touches floating point.
//
// # Finding a key between two neighbors
//
// KeyBetween walks the Stern–Brocot tree: between two keys it returns their
// mediant (the fraction with the smallest denominator strictly inside the
// interval); at the boundaries the implicit bounds are 0/1 below and an
// integer step above.
//
//	KeyBetween(nil, nil)        = 1/1
//	KeyBetween(&1/1, nil)       = 2/1
//	KeyBetween(nil, &1/1)       = 1/2
//	KeyBetween(&1/1, &2/1)      = 3/2
//
// Keys grow only when many inserts land in the same gap. ErrOverflow reports
// the point where 64 bits no longer suffice; the list must then be compacted.
package fraction
