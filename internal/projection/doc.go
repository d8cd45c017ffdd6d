// Package projection implements variance resolution for container nodes.
//
// A container node natively stores objects of some base item type M. A rule
// may ask to view that node as Builder<T> where T is a supertype, the same
// type, or a subtype of M. The projection decides at configuration time
// whether the request is legal and which concrete item type the resulting
// builder is bound to:
//
//   - T assignable from M (supertype or equal): effective type is M, so
//     default creation stays maximally specific.
//   - M assignable from T (strict subtype): effective type is T; the
//     container treats T as the default creatable type for this view while
//     its native item type stays M.
//   - otherwise: the request is rejected.
//
// Equality deliberately resolves through the supertype branch, which keeps
// identical-type requests deterministic. The decision is a pure function over
// two type descriptors; the predicate and the view producer share it, so they
// can never disagree.
//
// Read-only views are not supported by this projection: container contents
// are mutable only through creation at this layer.
package projection
