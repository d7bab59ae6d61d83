// Package lang implements the expression language used to resolve
// CI variables from template expressions.
//
// The grammar is a closed subset of Jinja/Python expressions: string,
// number, boolean, and none literals; identifiers resolved against a
// caller-supplied environment; boolean operators or/and/not with
// Python truthiness and short-circuit operand results; conditional
// expressions (a if cond else b); comparisons; additive and
// multiplicative arithmetic; and string concatenation with + and ~.
//
// Evaluation is pure value computation. The language exposes no
// filesystem, network, environment, or process primitives, so an
// expression cannot observe or affect anything outside the
// environment it is evaluated against.
//
// Truthiness follows Python exactly: None, False, empty strings, and
// numeric zero are falsy, as are references to names absent from the
// environment. An absent name behaves like Jinja's Undefined: it may
// participate in or/and/not chains and conditionals, but any attempt
// to operate on it (concatenation, arithmetic, ordering) is an
// evaluation error. This makes the documented coalescing idiom work
// as callers expect:
//
//	a or b or 'default'
//
// yields 'default' when a is absent and b is empty.
package lang
