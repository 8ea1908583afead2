// Package resilience groups the fault tolerance helpers used by the outbound
// clients: circuit breakers around the inference, grammar and content-fetch
// endpoints, and retry with exponential backoff and jitter.
//
//	cb := circuitbreaker.New(circuitbreaker.HuggingFaceConfig())
//	summary, err := circuitbreaker.Do(cb, func() (string, error) {
//	    return client.call(ctx)
//	})
//
//	err = retry.WithBackoff(ctx, retry.InferenceConfig(), func() error {
//	    return performOperation()
//	})
package resilience
