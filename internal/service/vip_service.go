package service

import (
	"context"
	"fmt"
	"time"

	"vespernexus/internal/entity"
	"vespernexus/internal/repository"

	"github.com/google/uuid"
)

// Fixed price table, currency-agnostic integer units.
var planPrices = map[entity.VipLevel]int{
	entity.VipLevelMonth:  60,
	entity.VipLevelSeason: 150,
	entity.VipLevelYear:   360,
}

var planDays = map[entity.VipLevel]int{
	entity.VipLevelMonth:  30,
	entity.VipLevelSeason: 90,
	entity.VipLevelYear:   365,
}

// VipService computes payable amounts from plan and coupon, tracks orders
// through pending -> paid, and grants the entitlement. Payment capture itself
// happens at an external channel; Confirm is its callback.
type VipService struct {
	orders  repository.VipOrderRepository
	coupons repository.CouponRepository
	users   repository.UserRepository
	audit   repository.AuditLogRepository
	clock   Clock
}

func NewVipService(
	orders repository.VipOrderRepository,
	coupons repository.CouponRepository,
	users repository.UserRepository,
	audit repository.AuditLogRepository,
	clock Clock,
) *VipService {
	return &VipService{
		orders:  orders,
		coupons: coupons,
		users:   users,
		audit:   audit,
		clock:   clock,
	}
}

func (s *VipService) CreateCoupon(ctx context.Context, adminID uuid.UUID, input CouponInput) (uuid.UUID, error) {
	if input.Type != entity.CouponTypeDiscount && input.Type != entity.CouponTypeFree {
		return uuid.Nil, ErrInvalidInput
	}
	if input.Type == entity.CouponTypeDiscount && (input.Value <= 0 || input.Value > 100) {
		return uuid.Nil, ErrInvalidInput
	}

	code := input.Code
	if code == "" {
		code = fmt.Sprintf("CP-%s", uuid.NewString()[:6])
	}
	// Null uses means unlimited; everything else defaults to a single use.
	var uses *int
	if !input.Unlimited {
		n := 1
		if input.Uses != nil {
			n = *input.Uses
		}
		uses = &n
	}

	coupon := &entity.Coupon{
		Code:          code,
		Type:          input.Type,
		Value:         input.Value,
		DurationDays:  input.DurationDays,
		UsesRemaining: uses,
		CreatedBy:     &adminID,
	}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return uuid.Nil, err
	}

	_ = appendAudit(ctx, s.audit, &adminID, entity.AuditCreateCoupon,
		code, string(input.Type), nil)
	return coupon.ID, nil
}

// Purchase creates an order for plan. A missing, exhausted or concurrently
// drained coupon is ignored and the purchase proceeds at full price; that
// permissiveness is deliberate. A zero payable order is born paid and the
// entitlement is granted immediately.
func (s *VipService) Purchase(ctx context.Context, userID uuid.UUID, plan entity.VipLevel, channel, couponCode string) (*PurchaseResult, error) {
	price, ok := planPrices[plan]
	if !ok {
		return nil, ErrUnknownPlan
	}

	var coupon *entity.Coupon
	if couponCode != "" {
		redeemed, err := s.coupons.Redeem(ctx, couponCode)
		if err != nil {
			return nil, err
		}
		coupon = redeemed
	}

	payable := price
	if coupon != nil {
		switch coupon.Type {
		case entity.CouponTypeDiscount:
			// ceil(price * value / 100) in integers.
			payable = (price*coupon.Value + 99) / 100
		case entity.CouponTypeFree:
			payable = 0
		}
	}

	status := entity.OrderStatusPending
	if payable == 0 {
		status = entity.OrderStatusPaid
	}
	order := &entity.VipOrder{
		UserID:  userID,
		Plan:    plan,
		Amount:  payable,
		Channel: channel,
		Status:  status,
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if payable == 0 {
		if err := s.grantEntitlement(ctx, userID, plan); err != nil {
			return nil, err
		}
	}

	_ = appendAudit(ctx, s.audit, &userID, entity.AuditPurchase,
		order.ID.String(), string(plan), map[string]any{"payable": payable, "channel": channel})
	return &PurchaseResult{OrderID: order.ID.String(), Payable: payable}, nil
}

// Confirm is the payment-channel callback. The pending -> paid flip is
// atomic, so a duplicate confirmation finds no pending row and does not
// extend the entitlement a second time.
func (s *VipService) Confirm(ctx context.Context, orderID uuid.UUID, success bool) (entity.OrderStatus, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", ErrOrderNotFound
	}
	if !success {
		return order.Status, nil
	}

	flipped, err := s.orders.MarkPaid(ctx, order.ID, s.now())
	if err != nil {
		return "", err
	}
	if !flipped {
		return entity.OrderStatusPaid, nil
	}

	if err := s.grantEntitlement(ctx, order.UserID, order.Plan); err != nil {
		return "", err
	}

	_ = appendAudit(ctx, s.audit, nil, entity.AuditConfirmOrder,
		order.ID.String(), string(order.Plan), nil)
	return entity.OrderStatusPaid, nil
}

// grantEntitlement overwrites the expiry rather than extending it: VIP time
// does not stack across purchases.
func (s *VipService) grantEntitlement(ctx context.Context, userID uuid.UUID, plan entity.VipLevel) error {
	days, ok := planDays[plan]
	if !ok {
		// Stored orders can outlive the plan table; unknown plans get the
		// year term rather than an instant expiry.
		days = planDays[entity.VipLevelYear]
	}
	expiry := s.now().Add(time.Duration(days) * 24 * time.Hour)
	return s.users.GrantVip(ctx, userID, plan, expiry)
}

func (s *VipService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
