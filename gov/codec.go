package gov

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"tokengov/ledger"
)

// Records are stored with fixed little-endian layouts: one record type byte,
// then fixed-width fields and zero-padded byte arrays for strings. The same
// writer/reader pair also backs the instruction wire format.

type binWriter struct {
	buf bytes.Buffer
}

func newWriter() *binWriter { return &binWriter{} }

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

func (w *binWriter) writeByte(v byte) {
	w.buf.WriteByte(v)
}

func (w *binWriter) writeUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeAddress(a ledger.Address) {
	w.buf.Write(a[:])
}

// writeFixedString truncates to size and zero-pads the remainder so every
// record keeps its fixed layout.
func (w *binWriter) writeFixedString(s string, size int) {
	b := []byte(s)
	if len(b) > size {
		b = b[:size]
	}
	w.buf.Write(b)
	for i := len(b); i < size; i++ {
		w.buf.WriteByte(0)
	}
}

func (w *binWriter) writeFixedBytes(b []byte, size int) {
	if len(b) > size {
		b = b[:size]
	}
	w.buf.Write(b)
	for i := len(b); i < size; i++ {
		w.buf.WriteByte(0)
	}
}

type binReader struct {
	data []byte
	off  int
	err  error
}

func newReader(data []byte) *binReader { return &binReader{data: data} }

func (r *binReader) fail() {
	if r.err == nil {
		r.err = fmt.Errorf("%w: truncated buffer at offset %d", ErrInvalidInstruction, r.off)
	}
}

func (r *binReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.fail()
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *binReader) readByte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *binReader) readUint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *binReader) readUint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *binReader) readUint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *binReader) readAddress() ledger.Address {
	var a ledger.Address
	b := r.take(ledger.AddressSize)
	if b != nil {
		copy(a[:], b)
	}
	return a
}

// readFixedString reads size bytes and cuts the string at the first zero.
func (r *binReader) readFixedString(size int) string {
	b := r.take(size)
	if b == nil {
		return ""
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func (r *binReader) readFixedBytes(dst []byte) {
	b := r.take(len(dst))
	if b != nil {
		copy(dst, b)
	}
}

// remaining reports whether unread bytes are left, used to reject oversized
// instruction buffers.
func (r *binReader) remaining() int {
	return len(r.data) - r.off
}

func expectType(got byte, want RecordType) error {
	if RecordType(got) == RecordUninitialized {
		return ErrRecordNotFound
	}
	if RecordType(got) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrWrongRecordType, got, want)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Record layouts
// ---------------------------------------------------------------------------

func encodeRealm(r *Realm) []byte {
	w := newWriter()
	w.writeByte(byte(RecordRealm))
	w.writeFixedString(r.Name, MaxGovernanceNameLen)
	w.writeAddress(r.GovernanceMint)
	w.writeAddress(r.CouncilMint)
	w.writeAddress(r.GovernanceHolding)
	w.writeAddress(r.CouncilHolding)
	return w.bytes()
}

func decodeRealm(data []byte) (*Realm, error) {
	rd := newReader(data)
	t := rd.readByte()
	var r Realm
	r.Type = RecordRealm
	r.Name = rd.readFixedString(MaxGovernanceNameLen)
	r.GovernanceMint = rd.readAddress()
	r.CouncilMint = rd.readAddress()
	r.GovernanceHolding = rd.readAddress()
	r.CouncilHolding = rd.readAddress()
	if rd.err != nil {
		return nil, rd.err
	}
	if err := expectType(t, RecordRealm); err != nil {
		return nil, err
	}
	return &r, nil
}

func encodeGovernance(g *Governance) []byte {
	w := newWriter()
	w.writeByte(byte(RecordGovernance))
	w.writeAddress(g.Realm)
	w.writeAddress(g.GovernedTarget)
	w.writeByte(g.VoteThreshold)
	w.writeUint64(g.MinInstructionHoldUpTime)
	w.writeUint64(g.MaxVotingTime)
	w.writeAddress(g.GovernanceMint)
	w.writeAddress(g.CouncilMint)
	w.writeFixedString(g.Name, MaxGovernanceNameLen)
	w.writeUint32(g.ProposalCount)
	return w.bytes()
}

func decodeGovernance(data []byte) (*Governance, error) {
	rd := newReader(data)
	t := rd.readByte()
	var g Governance
	g.Type = RecordGovernance
	g.Realm = rd.readAddress()
	g.GovernedTarget = rd.readAddress()
	g.VoteThreshold = rd.readByte()
	g.MinInstructionHoldUpTime = rd.readUint64()
	g.MaxVotingTime = rd.readUint64()
	g.GovernanceMint = rd.readAddress()
	g.CouncilMint = rd.readAddress()
	g.Name = rd.readFixedString(MaxGovernanceNameLen)
	g.ProposalCount = rd.readUint32()
	if rd.err != nil {
		return nil, rd.err
	}
	if err := expectType(t, RecordGovernance); err != nil {
		return nil, err
	}
	return &g, nil
}

func encodeProposal(p *Proposal) []byte {
	w := newWriter()
	w.writeByte(byte(RecordProposal))
	w.writeAddress(p.Governance)
	w.writeAddress(p.State)
	w.writeAddress(p.SignatoryMint)
	w.writeAddress(p.AdminMint)
	w.writeAddress(p.VoteMint)
	w.writeAddress(p.YesVoteMint)
	w.writeAddress(p.NoVoteMint)
	w.writeAddress(p.SignatoryValidation)
	w.writeAddress(p.AdminValidation)
	w.writeAddress(p.VoteValidation)
	w.writeAddress(p.SourceHolding)
	w.writeAddress(p.SourceMint)
	w.writeAddress(p.YesVoteDump)
	w.writeAddress(p.NoVoteDump)
	return w.bytes()
}

func decodeProposal(data []byte) (*Proposal, error) {
	rd := newReader(data)
	t := rd.readByte()
	var p Proposal
	p.Type = RecordProposal
	p.Governance = rd.readAddress()
	p.State = rd.readAddress()
	p.SignatoryMint = rd.readAddress()
	p.AdminMint = rd.readAddress()
	p.VoteMint = rd.readAddress()
	p.YesVoteMint = rd.readAddress()
	p.NoVoteMint = rd.readAddress()
	p.SignatoryValidation = rd.readAddress()
	p.AdminValidation = rd.readAddress()
	p.VoteValidation = rd.readAddress()
	p.SourceHolding = rd.readAddress()
	p.SourceMint = rd.readAddress()
	p.YesVoteDump = rd.readAddress()
	p.NoVoteDump = rd.readAddress()
	if rd.err != nil {
		return nil, rd.err
	}
	if err := expectType(t, RecordProposal); err != nil {
		return nil, err
	}
	return &p, nil
}

func encodeProposalState(s *ProposalState) []byte {
	w := newWriter()
	w.writeByte(byte(RecordProposalState))
	w.writeAddress(s.Proposal)
	w.writeByte(byte(s.Status))
	w.writeUint64(s.TotalSigningTokensMinted)
	w.writeFixedString(s.DescriptionLink, MaxDescriptionLen)
	w.writeFixedString(s.Name, MaxProposalNameLen)
	w.writeUint64(s.VotingEndedAt)
	w.writeUint64(s.VotingBeganAt)
	w.writeUint64(s.CreatedAt)
	w.writeUint64(s.CompletedAt)
	w.writeUint64(s.DeletedAt)
	w.writeByte(s.NumberOfExecutedTransactions)
	w.writeByte(s.NumberOfTransactions)
	for i := range s.Transactions {
		w.writeAddress(s.Transactions[i])
	}
	return w.bytes()
}

func decodeProposalState(data []byte) (*ProposalState, error) {
	rd := newReader(data)
	t := rd.readByte()
	var s ProposalState
	s.Type = RecordProposalState
	s.Proposal = rd.readAddress()
	s.Status = ProposalStatus(rd.readByte())
	s.TotalSigningTokensMinted = rd.readUint64()
	s.DescriptionLink = rd.readFixedString(MaxDescriptionLen)
	s.Name = rd.readFixedString(MaxProposalNameLen)
	s.VotingEndedAt = rd.readUint64()
	s.VotingBeganAt = rd.readUint64()
	s.CreatedAt = rd.readUint64()
	s.CompletedAt = rd.readUint64()
	s.DeletedAt = rd.readUint64()
	s.NumberOfExecutedTransactions = rd.readByte()
	s.NumberOfTransactions = rd.readByte()
	for i := range s.Transactions {
		s.Transactions[i] = rd.readAddress()
	}
	if rd.err != nil {
		return nil, rd.err
	}
	if err := expectType(t, RecordProposalState); err != nil {
		return nil, err
	}
	return &s, nil
}

func encodeTransaction(tx *SingleSignerTransaction) []byte {
	w := newWriter()
	w.writeByte(byte(RecordTransaction))
	w.writeUint64(tx.DelaySlots)
	w.writeFixedBytes(tx.Instruction[:], MaxInstructionData)
	w.writeUint16(tx.InstructionEndIndex)
	w.writeByte(tx.Executed)
	return w.bytes()
}

func decodeTransaction(data []byte) (*SingleSignerTransaction, error) {
	rd := newReader(data)
	t := rd.readByte()
	var tx SingleSignerTransaction
	tx.Type = RecordTransaction
	tx.DelaySlots = rd.readUint64()
	rd.readFixedBytes(tx.Instruction[:])
	tx.InstructionEndIndex = rd.readUint16()
	tx.Executed = rd.readByte()
	if rd.err != nil {
		return nil, rd.err
	}
	if err := expectType(t, RecordTransaction); err != nil {
		return nil, err
	}
	return &tx, nil
}

func encodeVoteRecord(v *VoteRecord) []byte {
	w := newWriter()
	w.writeByte(byte(RecordVoteRecord))
	w.writeAddress(v.Proposal)
	w.writeAddress(v.Voter)
	w.writeUint64(v.UndecidedCount)
	w.writeUint64(v.YesCount)
	w.writeUint64(v.NoCount)
	return w.bytes()
}

func decodeVoteRecord(data []byte) (*VoteRecord, error) {
	rd := newReader(data)
	t := rd.readByte()
	var v VoteRecord
	v.Type = RecordVoteRecord
	v.Proposal = rd.readAddress()
	v.Voter = rd.readAddress()
	v.UndecidedCount = rd.readUint64()
	v.YesCount = rd.readUint64()
	v.NoCount = rd.readUint64()
	if rd.err != nil {
		return nil, rd.err
	}
	if err := expectType(t, RecordVoteRecord); err != nil {
		return nil, err
	}
	return &v, nil
}

func encodeVoterRecord(v *VoterRecord) []byte {
	w := newWriter()
	w.writeByte(byte(RecordVoterRecord))
	w.writeAddress(v.Realm)
	w.writeByte(byte(v.TokenType))
	w.writeAddress(v.TokenOwner)
	w.writeUint64(v.TokenDepositAmount)
	w.writeAddress(v.VoteAuthority)
	w.writeByte(v.ActiveVotesCount)
	w.writeByte(v.TotalVotesCount)
	return w.bytes()
}

func decodeVoterRecord(data []byte) (*VoterRecord, error) {
	rd := newReader(data)
	t := rd.readByte()
	var v VoterRecord
	v.Type = RecordVoterRecord
	v.Realm = rd.readAddress()
	v.TokenType = GoverningTokenType(rd.readByte())
	v.TokenOwner = rd.readAddress()
	v.TokenDepositAmount = rd.readUint64()
	v.VoteAuthority = rd.readAddress()
	v.ActiveVotesCount = rd.readByte()
	v.TotalVotesCount = rd.readByte()
	if rd.err != nil {
		return nil, rd.err
	}
	if err := expectType(t, RecordVoterRecord); err != nil {
		return nil, err
	}
	return &v, nil
}
