/*
Package browserkit is a small set of browser helpers for Go programs.

It groups three kinds of helpers, listed by Catalog:

  - requests: fetch-style HTTP calls with browser defaults that unwrap
    {"data": ...} envelopes (Get, Post, Put, Delete) and script loading
    into a page (LoadScript).
  - ui: screen density detection (IsRetina).
  - urls: query string encoding and editing (ToQueryString,
    FromQueryString, ReplaceQueryParam).

Helpers that need a page take it as an argument, usually a *browser.Session.
The request helpers use requests.DefaultClient; build a requests.Client for
anything else.
*/
package browserkit
