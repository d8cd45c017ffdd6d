// Package objstore implements the heterogeneous named-object store backing
// container nodes in the model graph.
//
// A store is declared with a native item type and a set of creatable types,
// each bound to a factory. Creation is polymorphic: callers may create an
// object of the store's default type or of any registered creatable type by
// name. The store owns validation of both the requested type and name
// uniqueness; layers above propagate its errors unchanged.
//
// Objects created here carry named cty.Value attributes, which is how rules
// configure them after creation.
package objstore
