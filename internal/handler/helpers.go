package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/apierror"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// validateStruct runs validator tags on an already-decoded struct. Used by
// the PDV dispatcher, which decodes the payload itself.
func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps service sentinels to HTTP status codes. Handlers
// never inspect error strings.
func writeServiceError(c *gin.Context, err error) {
	var divergente *service.PagamentoDivergenteError

	switch {
	case errors.Is(err, service.ErrVendaNaoEncontrada),
		errors.Is(err, service.ErrSessaoNaoEncontrada),
		errors.Is(err, service.ErrProdutoNaoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))

	case errors.Is(err, service.ErrValidacao),
		errors.Is(err, service.ErrSemSessaoAtiva),
		errors.Is(err, service.ErrSessaoJaAberta),
		errors.Is(err, service.ErrSessaoNaoAtiva),
		errors.Is(err, service.ErrVendaNaoRascunho),
		errors.Is(err, service.ErrVendaJaCancelada),
		errors.As(err, &divergente):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))

	default:
		c.JSON(http.StatusInternalServerError, apierror.New("erro interno"))
	}
}
