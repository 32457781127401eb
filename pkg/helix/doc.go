// Package helix provides a rate-limited client for the Twitch Helix API.
//
// This package includes:
//   - A client that self-throttles against the Helix point quota
//   - Type-safe models for stream, user and follow responses
//   - Helper functions for constructing endpoint paths
//   - Typed errors shared with the errors package
//
// Example usage:
//
//	client := helix.NewClient(clientID, authToken, nil)
//
//	streams, err := client.GetStreams(ctx, "somestreamer", "otherstreamer")
//	if err != nil {
//	    var apiErr *errors.Error
//	    if goerrors.As(err, &apiErr) {
//	        switch apiErr.Type {
//	        case errors.ErrorTypeAuth:
//	            // token expired or missing scope
//	        case errors.ErrorTypeRateLimit:
//	            // upstream 429 despite local throttling
//	        }
//	    }
//	}
//
//	for _, s := range streams.Data {
//	    fmt.Println(s.UserName, s.ViewerCount)
//	}
//
// Every fetch reserves one quota point before dispatch; callers block
// inside the reservation when the window is exhausted.
package helix
