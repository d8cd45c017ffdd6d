// Package view implements the typed handles a rule receives after a
// successful projection: an Instantiator bound to one resolved effective type
// and one backing container, a Builder exposing creation scoped to that type,
// and the View that carries them together with a fully reified Builder<T>
// type descriptor.
//
// A View is transient: it belongs to the rule invocation that requested it
// and is not shared across rules, because each resolution may bind a
// different effective type.
package view
