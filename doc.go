// Package streamfeed is the incremental streaming-response core extracted
// from the ForgeUI admin application's conversational prompt dashboards.
//
// It covers exactly two concerns: decoding a chunked, line-delimited event
// stream into typed domain events that drive an ordered list of feedback
// steps, and keeping a resilient out-of-band status channel alive across
// connection drops. Everything around it (page layout, CRUD plumbing,
// rendering) is a collaborator that initiates requests and observes state.
//
// # Streaming a prompt
//
// Create a session and stream a prompt into it:
//
//	client, _ := streamfeed.NewClient(streamfeed.Config{
//	    Endpoint: "https://admin.example.com/api/prompt",
//	})
//	sess := streamfeed.NewSession(nil)
//	sess.OnChange(func() { /* re-render steps and artifacts */ })
//
//	err := client.Stream(ctx, streamfeed.PromptRequest{
//	    Prompt: "Generate a customer schema",
//	    Model:  "claude-sonnet-4-5-20250929",
//	}, sess)
//
// The session's Steps and Artifacts snapshots update as the response
// arrives; transport failures surface as a failed step, never as a missing
// one.
//
// # Status channel
//
// The notifier package keeps a status channel connected for the lifetime of
// a dashboard session:
//
//	ch := notifier.New(dial, nil)
//	defer ch.Close()
//	ch.Subscribe(notifier.MessageWorkflowStatus, onStatus)
//	_ = ch.Connect(ctx)
package streamfeed
