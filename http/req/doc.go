/*
Package req parses the payload of an HTTP request into a pointer to a struct.

A Parser decodes JSON bodies and query parameters alike,
then checks the decoded value against its "validate" struct tags.
Whatever goes wrong along the way surfaces as an outpost sentinel error,
so handlers respond the same way whichever encoding the client used.
Rule violations surface as ValidationErrors, which unwrap to outpost.ErrNotValid.

Beyond the stock rules, a Parser understands:

	routename  a route name the Registrar can mount, cf. outpost.RouteDescriptor.Valid
	view       a path to a template file ending in ".tmpl"
*/
package req
