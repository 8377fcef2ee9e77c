// Package move copies and fills byte regions using the widest transfer the
// operands' alignment allows: 4-byte words when aligned, 32-byte bursts of
// eight words for large aligned copies, and byte-wise transfer otherwise.
//
// All functions work like the builtin copy: the byte count is the shorter of
// the operand lengths and the count actually moved is returned. Source and
// destination must not overlap.
//
// Results are byte-identical across Copy, BurstCopy and the builtin copy;
// only the number of memory transactions differs.
package move
