package minio

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/s3-file-manager/internal/errs"
	miniogo "github.com/minio/minio-go/v7"
)

// mapError translates a minio-go error into a *errs.Error. Only a missing
// object or bucket is distinguished; every other failure is Upstream.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	var resp miniogo.ErrorResponse
	if errors.As(err, &resp) {
		if resp.StatusCode == http.StatusNotFound {
			return errs.Wrap(errs.KindNotFound, msg, err)
		}

		switch resp.Code {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return errs.Wrap(errs.KindNotFound, msg, err)
		}
	}

	return errs.Wrap(errs.KindUpstream, msg, err)
}
