/*
Package httpclient builds *http.Client values on top of the decorators in
package transport. Clients honor the fetch redirect and cache modes carried
by the request context, so a single client can serve requests with different
fetch options.
*/
package httpclient
