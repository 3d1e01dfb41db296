package lotrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/parking-lot/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/parking-lot/pkg/core/model"
)

type rawParkReq struct {
	Size  string `form:"size" binding:"required"`
	Entry string `form:"entry" binding:"required"`
	At    string `form:"at" binding:"omitempty"`
}

type parkReq struct {
	Plate string
	Size  model.Size
	Entry model.EntryPoint
	At    time.Time
}

type rawUnparkReq struct {
	At string `form:"at" binding:"omitempty"`
}

type unparkReq struct {
	Plate string
	At    time.Time
}

func (rs *resource) DserParkReq(c *gin.Context) *parkReq {
	req := &rawParkReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return nil
	}
	var errs map[string][]string
	val := &parkReq{Plate: c.Param("plate")}
	var err error
	val.Size, err = model.ParseSize(req.Size)
	serdser.Assert(
		&errs, err == nil, "size",
		"The size must be one of small, medium, or large.",
	)
	val.Entry, err = model.ParseEntryPoint(req.Entry)
	serdser.Assert(
		&errs, err == nil, "entry", "The entry must be a gate letter.",
	)
	val.At = rs.dserAt(&errs, req.At)
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return val
}

func (rs *resource) DserUnparkReq(c *gin.Context) *unparkReq {
	req := &rawUnparkReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return nil
	}
	var errs map[string][]string
	val := &unparkReq{Plate: c.Param("plate")}
	val.At = rs.dserAt(&errs, req.At)
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return val
}

// dserAt parses the optional at timestamp in RFC 3339 format. Missing
// timestamps are taken from the resource clock.
func (rs *resource) dserAt(errs *map[string][]string, at string) time.Time {
	if at == "" {
		return rs.now()
	}
	t, err := time.Parse(time.RFC3339, at)
	if !serdser.Assert(
		errs, err == nil, "at", "The at must be an RFC 3339 timestamp.",
	) {
		return time.Time{}
	}
	return t
}
