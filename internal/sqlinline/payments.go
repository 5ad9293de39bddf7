package sqlinline

const QInsertPayment = `--sql 4a33bbc3-d858-4e6a-873b-43e94ec9e6f7
insert into payments (order_id, user_id, amount, order_name, status, created_at, updated_at)
values ($1::text, $2::uuid, $3::bigint, $4::text, 'pending', now(), now());
`

const QSelectPaymentByOrder = `--sql 11a8cf11-17b8-4a72-bf9f-519a1acdea53
select user_id, amount, status
from payments
where order_id = $1::text
limit 1;
`

const QUpdatePaymentStatus = `--sql db124ee7-1c6d-4392-ace1-4fad846aef1b
update payments
set status = $2::text, payment_key = nullif($3::text, ''), updated_at = now()
where order_id = $1::text;
`
