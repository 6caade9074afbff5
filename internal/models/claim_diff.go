package models

// ApplyUpdate returns a copy of current with req applied and the list of fields whose
// value actually changed. Derived fields are recomputed on the copy but never reported
// as changes of their own.
func ApplyUpdate(current *Claim, req *UpdateClaimRequest) (*Claim, []FieldChange) {
	next := *current
	c := &changeCollector{}

	c.str("claim_number", &next.ClaimNumber, req.ClaimNumber)
	c.str("policy_number", &next.PolicyNumber, req.PolicyNumber)
	c.str("policyholder_name", &next.PolicyholderName, req.PolicyholderName)
	c.str("policyholder_email", &next.PolicyholderEmail, req.PolicyholderEmail)
	c.str("policyholder_phone", &next.PolicyholderPhone, req.PolicyholderPhone)
	c.str("loss_street", &next.LossStreet, req.LossStreet)
	c.str("loss_city", &next.LossCity, req.LossCity)
	c.str("loss_state", &next.LossState, req.LossState)
	c.str("loss_zip", &next.LossZip, req.LossZip)
	c.date("date_of_loss", &next.DateOfLoss, req.DateOfLoss)
	c.ref("carrier_id", &next.CarrierID, req.CarrierID)
	c.ref("contractor_id", &next.ContractorID, req.ContractorID)
	c.ref("estimator_id", &next.EstimatorID, req.EstimatorID)
	c.ref("adjuster_id", &next.AdjusterID, req.AdjusterID)
	c.str("job_type", &next.JobType, req.JobType)
	c.num("total_squares", &next.TotalSquares, req.TotalSquares)
	c.num("initial_rcv", &next.InitialRCV, req.InitialRCV)
	c.num("current_total_rcv", &next.CurrentTotalRCV, req.CurrentTotalRCV)

	if len(c.changes) > 0 {
		next.Recompute()
	}

	return &next, c.changes
}
