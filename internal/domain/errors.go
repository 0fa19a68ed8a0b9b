package domain

import "errors"

// Sentinel errors for the command surface. Handlers map these to 4xx
// responses and a user-facing notification; none of them are fatal.
var (
	// ErrInvalidAmount is returned for deposits below the minimum or
	// non-positive amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientShares is returned when a withdrawal exceeds the
	// owner's share balance.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrInsufficientBalance is returned when the wallet cannot cover a
	// deposit plus its gas fee.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrWalletNotConnected is returned when a command requires a
	// connected wallet identity.
	ErrWalletNotConnected = errors.New("wallet not connected")

	// ErrIntervalNotElapsed is returned when compound is called before
	// the compound interval has passed.
	ErrIntervalNotElapsed = errors.New("compound interval not reached")

	// ErrAlreadyVoted is returned on a duplicate governance vote.
	ErrAlreadyVoted = errors.New("already voted on this proposal")

	// ErrProposalNotFound is returned when a vote references an unknown
	// proposal.
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrProposalClosed is returned when voting on a proposal that is no
	// longer active.
	ErrProposalClosed = errors.New("proposal is not active")

	// ErrNoVotingPower is returned when the voter holds no shares.
	ErrNoVotingPower = errors.New("voting requires a share balance")
)
