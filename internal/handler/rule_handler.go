package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/utils"
)

type ruleService interface {
	PricingRules(ctx context.Context) ([]models.PricingRule, error)
	LogisticsRules(ctx context.Context) ([]models.LogisticsRule, error)
	SavePricingRule(ctx context.Context, rule *models.PricingRule) error
	DeletePricingRule(ctx context.Context, platform string) error
	SaveLogisticsRule(ctx context.Context, rule *models.LogisticsRule) error
	DeleteLogisticsRule(ctx context.Context, id string) error
}

// RuleHandler exposes the commission and logistics rule tables.
type RuleHandler struct {
	ruleService ruleService
}

// NewRuleHandler constructs a RuleHandler.
func NewRuleHandler(ruleService ruleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

func (h *RuleHandler) GetPricingRules(c *gin.Context) {
	rules, err := h.ruleService.PricingRules(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Pricing rules retrieved successfully", gin.H{"rules": rules})
}

func (h *RuleHandler) PutPricingRule(c *gin.Context) {
	var rule models.PricingRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	rule.Platform = c.Param("platform")
	if err := h.ruleService.SavePricingRule(c.Request.Context(), &rule); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Pricing rule saved successfully", rule)
}

func (h *RuleHandler) DeletePricingRule(c *gin.Context) {
	if err := h.ruleService.DeletePricingRule(c.Request.Context(), c.Param("platform")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Pricing rule deleted successfully", nil)
}

func (h *RuleHandler) GetLogisticsRules(c *gin.Context) {
	rules, err := h.ruleService.LogisticsRules(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Logistics rules retrieved successfully", gin.H{"rules": rules})
}

func (h *RuleHandler) PutLogisticsRule(c *gin.Context) {
	var rule models.LogisticsRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	rule.ID = c.Param("id")
	if err := h.ruleService.SaveLogisticsRule(c.Request.Context(), &rule); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Logistics rule saved successfully", rule)
}

func (h *RuleHandler) DeleteLogisticsRule(c *gin.Context) {
	if err := h.ruleService.DeleteLogisticsRule(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Logistics rule deleted successfully", nil)
}
