/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension owns a single configuration entity, loaded from the
genesis file under conf.<package> and stored under the _c:<package> key.

Not being able to get a configuration value is a critical condition for
the application. Extensions return the error and the transaction fails.
*/
package gconf
