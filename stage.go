// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

// A Stage identifies one of the four extension points at which Client
// runs hooks during a request.
type Stage int

const (
	// BeforeRequest identifies the stage that runs after the request
	// configuration is merged, and before the URL is built and the
	// request is sent.
	//
	// BeforeRequest hooks run as a fold: each hook receives the Config
	// returned by the previous hook, and the Config returned by the last
	// hook is used for every later step of the request, including as
	// context for any later hook stage.
	BeforeRequest Stage = iota
	// AfterResponse identifies the stage that runs once the transport
	// has returned a response, regardless of its status code, and
	// before the response body is parsed.
	//
	// AfterResponse hooks run as a fold over the response: each hook
	// receives the Response returned by the previous hook. The first
	// hook receives a clone of the transport's response.
	AfterResponse
	// OnResponseError identifies the stage that runs when the response
	// status code indicates failure. The hooks receive the HTTPError
	// that is about to be returned along with the response.
	OnResponseError
	// OnRequestError identifies the stage that runs for every other
	// failure, for example a URL that cannot be built, a transport
	// failure, a body that cannot be parsed, or an error returned by a
	// BeforeRequest or AfterResponse hook.
	OnRequestError
	// stageSentinel provides the total number of stages typed as a Stage.
	stageSentinel

	// numStages provides the total number of stages as an int.
	numStages = int(stageSentinel)
)

var stageNames = []string{
	"BeforeRequest",
	"AfterResponse",
	"OnResponseError",
	"OnRequestError",
}

// Stages returns a slice containing all stages in the order in which
// they can occur during a request.
func Stages() []Stage {
	return []Stage{
		BeforeRequest,
		AfterResponse,
		OnResponseError,
		OnRequestError,
	}
}

// Name returns the name of the stage.
func (s Stage) Name() string {
	return stageNames[int(s)]
}

// String returns the name of the stage.
func (s Stage) String() string {
	return s.Name()
}
