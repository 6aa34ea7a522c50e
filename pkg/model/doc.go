// Package model defines the contact form data types shared by the form
// component, the validation rules, and the renderers. Fields are addressed by
// a closed enumeration with stable wire names (`firstName`, `lastName`,
// `email`, `message`) so templates, websocket events, and posted form values
// all agree on the same identifiers. FormState holds raw input, Errors holds a
// single message per failing field, and SubmittedRecord is the immutable
// snapshot produced by a successful submission.
package model
