/*
Package utils contains the decorators every application stack is built
from: panic recovery, logging, metrics, savepoints and action tagging.
*/
package utils
