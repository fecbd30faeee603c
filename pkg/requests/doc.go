/*
Package requests issues fetch-style HTTP requests and unwraps their payload.

Every request starts from the browser-like defaults

	{mode: "cors", cache: "default", credentials: "same-origin",
	 redirect: "follow", referrer: "no-referrer", headers: {}}

which client options, then request options, override key by key. Bodies of
non-GET requests are sent as text: strings verbatim, other values as JSON.
Responses are decoded as JSON unless their Content-Type says otherwise, and an
object response carrying a "data" member resolves to that member.

The round trip itself is delegated to a Fetcher: HTTPFetcher over net/http,
or browser.Session to run the request inside a headless Chrome page.

	client := requests.New(fetcher)
	user, err := client.Get(ctx, "https://api.example.com/users/{id}",
		requests.WithParam("id", 42),
		requests.WithCache(false),
	)
*/
package requests
