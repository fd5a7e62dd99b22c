package portainer

import (
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/mitchellh/mapstructure"
)

// DecodeInto converts decoded JSON (an Object, a []Object or any nesting of maps and
// slices) into a struct using its json tags. Scalar types are converted loosely, so
// "3" decodes into an int field and "true" into a bool field.
func DecodeInto(input any, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:           output,
	})
	if err != nil {
		return ErrDecode.MsgErr("unable to create decoder", err)
	}
	if err := dec.Decode(input); err != nil {
		return ErrDecode.MsgErr(err.Error(), err)
	}
	return nil
}

// ContainerSummaries converts a ListContainers result into Docker API container summaries.
func ContainerSummaries(objs []Object) ([]container.Summary, error) {
	out := make([]container.Summary, 0, len(objs))
	if err := DecodeInto(objs, &out); err != nil {
		return nil, err
	}
	return out, nil
}
