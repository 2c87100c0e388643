/*
Package x contains the pieces shared by all extensions.

Extensions implement Handlers and Decorators that are combined together
by the application. They never authenticate on their own: every
extension receives an Authenticator and asks it which conditions signed
the current transaction.
*/
package x
