// Package reader provides the client for the IBB (Istanbul Metropolitan
// Municipality) traffic data API.
//
// The client normalizes every successful response into a list of records:
// a JSON array maps to one record per element, a single JSON object is
// wrapped into a one-element list, and a non-JSON body yields an empty list.
// Non-2xx responses carry the raw body in Response.Message.
//
// Example usage:
//
//	client := reader.New(reader.DefaultBaseURL)
//	resp, err := client.Get(ctx, "TrafficIndex_Sc1_Cont", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range resp.Records {
//	    fmt.Println(rec)
//	}
package reader
